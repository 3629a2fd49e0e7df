package mocks

import (
	"context"
	"image"
	"image/color"
	"io"

	"github.com/user/plantscan/pkg/ports"
)

// VideoDecoder is a mock implementation of ports.VideoDecoder that produces
// a fixed number of synthetic frames.
type VideoDecoder struct {
	Info      ports.VideoInfo
	NumFrames int // Frames returned before io.EOF

	OpenFunc      func(path string) error
	ReadFrameFunc func(index int) (*image.RGBA, error)

	// Recorded calls for verification
	OpenedPath  string
	FramesRead  int
	CloseCalled int
}

// NewVideoDecoder returns a decoder yielding n frames of width x height.
func NewVideoDecoder(width, height, n int) *VideoDecoder {
	return &VideoDecoder{
		Info: ports.VideoInfo{
			Width:       width,
			Height:      height,
			FPS:         30,
			TotalFrames: n,
			Codec:       "h264",
		},
		NumFrames: n,
	}
}

func (m *VideoDecoder) Open(ctx context.Context, path string) (ports.VideoInfo, error) {
	m.OpenedPath = path
	if m.OpenFunc != nil {
		if err := m.OpenFunc(path); err != nil {
			return ports.VideoInfo{}, err
		}
	}
	return m.Info, nil
}

func (m *VideoDecoder) ReadFrame() (*image.RGBA, error) {
	if m.FramesRead >= m.NumFrames {
		return nil, io.EOF
	}
	index := m.FramesRead
	m.FramesRead++
	if m.ReadFrameFunc != nil {
		return m.ReadFrameFunc(index)
	}
	return SolidFrame(m.Info.Width, m.Info.Height, uint8(index)), nil
}

func (m *VideoDecoder) Close() error {
	m.CloseCalled++
	return nil
}

// SolidFrame returns an opaque frame filled with a gray level.
func SolidFrame(width, height int, level uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	c := color.RGBA{R: level, G: level, B: level, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

var _ ports.VideoDecoder = (*VideoDecoder)(nil)
