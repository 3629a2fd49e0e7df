package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate processing results for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveInferenceFrame saves the resized frame sent to the model.
	SaveInferenceFrame(index int, img image.Image) error

	// SaveAnnotatedFrame saves a sampled frame after annotation.
	SaveAnnotatedFrame(index int, img image.Image) error

	// SaveReportJSON saves the detection report of a run.
	SaveReportJSON(data []byte) error
}
