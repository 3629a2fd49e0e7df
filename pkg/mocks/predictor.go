package mocks

import (
	"context"
	"image"
	"sync"

	"github.com/user/plantscan/pkg/ports"
)

// Predictor is a mock implementation of ports.Predictor.
type Predictor struct {
	mu sync.Mutex

	// PredictFunc receives the zero-based call number.
	PredictFunc func(call int, img image.Image) ([]ports.Prediction, error)

	// Recorded calls for verification
	Calls []PredictCall
}

// PredictCall records one call to Predict.
type PredictCall struct {
	Width  int
	Height int
	Opts   ports.PredictOptions
}

func (m *Predictor) Predict(ctx context.Context, img image.Image, opts ports.PredictOptions) ([]ports.Prediction, error) {
	m.mu.Lock()
	call := len(m.Calls)
	m.Calls = append(m.Calls, PredictCall{
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Opts:   opts,
	})
	m.mu.Unlock()

	if m.PredictFunc != nil {
		return m.PredictFunc(call, img)
	}
	return nil, nil
}

var _ ports.Predictor = (*Predictor)(nil)
