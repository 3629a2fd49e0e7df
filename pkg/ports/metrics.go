package ports

import "time"

// Metrics records pipeline counters.
type Metrics interface {
	// FrameWritten counts a frame written to an output video.
	FrameWritten()

	// FrameSampled counts a frame submitted for inference.
	FrameSampled()

	// UniqueFrame counts a sampled frame whose fingerprint was new to its run.
	UniqueFrame()

	// Detection counts one detection by disease label.
	Detection(label string)

	// RunFinished records the outcome and duration of a run.
	RunFinished(outcome string, d time.Duration)
}
