package ports

import (
	"context"
	"errors"
	"image"
)

// ErrWriterInit marks an encoder that could not start writing its output,
// whether reported by Begin or by the first frame.
var ErrWriterInit = errors.New("video writer initialization failed")

// VideoEncoder abstracts video encoding to a file.
// An encoder instance handles a single file; create a new one per run.
type VideoEncoder interface {
	// Begin starts an encoder writing to path with the specified dimensions and frame rate.
	Begin(ctx context.Context, path string, width, height int, fps float64, opts EncoderOptions) error

	// EncodeFrame appends a frame. Frames are written in call order.
	EncodeFrame(img image.Image) error

	// End flushes pending frames and finalizes the container.
	End() error

	// Close releases encoder resources. After a successful End it is a no-op;
	// otherwise the partially written output is abandoned.
	Close() error
}

// EncoderOptions configures video encoding parameters.
type EncoderOptions struct {
	Codec   string // Encoder name passed to ffmpeg (default: libx264)
	Quality int    // CRF value: 0-51 (lower is higher quality)
	Preset  string
}
