package mocks

import (
	"context"
	"image"

	"github.com/user/plantscan/pkg/ports"
)

// VideoEncoder is a mock implementation of ports.VideoEncoder.
type VideoEncoder struct {
	BeginFunc       func(path string, width, height int, fps float64, opts ports.EncoderOptions) error
	EncodeFrameFunc func(img image.Image) error
	EndFunc         func() error

	// Recorded calls for verification
	BeginCalled bool
	BeginCall   BeginCall
	Frames      []image.Image
	EndCalled   bool
	CloseCalled int
}

// BeginCall records the arguments of Begin.
type BeginCall struct {
	Path   string
	Width  int
	Height int
	FPS    float64
	Opts   ports.EncoderOptions
}

func (m *VideoEncoder) Begin(ctx context.Context, path string, width, height int, fps float64, opts ports.EncoderOptions) error {
	m.BeginCalled = true
	m.BeginCall = BeginCall{Path: path, Width: width, Height: height, FPS: fps, Opts: opts}
	if m.BeginFunc != nil {
		return m.BeginFunc(path, width, height, fps, opts)
	}
	return nil
}

func (m *VideoEncoder) EncodeFrame(img image.Image) error {
	if m.EncodeFrameFunc != nil {
		if err := m.EncodeFrameFunc(img); err != nil {
			return err
		}
	}
	m.Frames = append(m.Frames, img)
	return nil
}

func (m *VideoEncoder) End() error {
	m.EndCalled = true
	if m.EndFunc != nil {
		return m.EndFunc()
	}
	return nil
}

func (m *VideoEncoder) Close() error {
	m.CloseCalled++
	return nil
}

var _ ports.VideoEncoder = (*VideoEncoder)(nil)
