package ports

import (
	"context"
	"image"
)

// VideoInfo is the stream metadata read once when a video is opened.
type VideoInfo struct {
	Width       int
	Height      int
	FPS         float64
	TotalFrames int // 0 when the container does not record it
	Codec       string
}

// VideoDecoder abstracts sequential video decoding.
// A decoder instance handles a single file; create a new one per run.
type VideoDecoder interface {
	// Open probes the container and starts decoding.
	Open(ctx context.Context, path string) (VideoInfo, error)

	// ReadFrame returns the next frame in presentation order.
	// It returns io.EOF after the last frame.
	ReadFrame() (*image.RGBA, error)

	// Close stops decoding and releases all resources. Safe to call more than once.
	Close() error
}

// VideoProber reads stream metadata without decoding frames.
type VideoProber interface {
	// Probe returns metadata for the video at path.
	Probe(ctx context.Context, path string) (VideoInfo, error)
}
