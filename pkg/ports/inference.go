package ports

import (
	"context"
	"image"
)

// Prediction is one raw object reported by the detection model.
// Coordinates are in the pixel space of the submitted image.
type Prediction struct {
	X          float64
	Y          float64
	Width      float64
	Height     float64
	Class      string
	Confidence float64
}

// PredictOptions holds per-call model thresholds.
type PredictOptions struct {
	Confidence float64 // 0..1
	Overlap    float64 // 0..1
}

// Predictor abstracts the plant disease detection model.
type Predictor interface {
	// Predict runs detection on img. An empty result means nothing was found.
	Predict(ctx context.Context, img image.Image, opts PredictOptions) ([]Prediction, error)
}
