package pipeline

import "errors"

// Failure classes of a detection run. Stages wrap these with %w so callers
// can classify with errors.Is.
var (
	// ErrInputMissing is returned when the video or plant type is absent.
	ErrInputMissing = errors.New("video and plant type are required")

	// ErrSourceOpen is returned when the input container cannot be read.
	ErrSourceOpen = errors.New("could not open video source")

	// ErrSinkInit is returned when the output writer cannot be created.
	ErrSinkInit = errors.New("could not initialize video writer")

	// ErrInference is returned when the detection model call fails or
	// returns malformed data.
	ErrInference = errors.New("inference failed")

	// ErrPersistenceVerification is returned when the output file is missing
	// after a run reported success.
	ErrPersistenceVerification = errors.New("processed video not found after processing")

	// ErrNotFound is returned when no processed video exists yet.
	ErrNotFound = errors.New("no processed video found")
)
