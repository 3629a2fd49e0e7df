package h264encoder

import "errors"

var (
	// ErrNotInitialized is returned when encoder methods are called before Begin.
	ErrNotInitialized = errors.New("h264encoder: encoder not initialized")

	// ErrAlreadyStarted is returned when Begin is called twice on one encoder.
	ErrAlreadyStarted = errors.New("h264encoder: encoder already started")

	// ErrInvalidParams is returned for non-positive dimensions or frame rate.
	ErrInvalidParams = errors.New("h264encoder: invalid encoding parameters")

	// ErrFrameSize is returned when a frame does not match the configured size.
	ErrFrameSize = errors.New("h264encoder: frame size mismatch")

	// ErrEncodingFailed is returned when the ffmpeg process exits with an error.
	ErrEncodingFailed = errors.New("h264encoder: encoding failed")
)
