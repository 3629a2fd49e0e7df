// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"image"

	"github.com/user/plantscan/pkg/ports"
)

// Sink is a no-op implementation of ports.DebugSink.
// It discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveInferenceFrame does nothing.
func (s *Sink) SaveInferenceFrame(index int, img image.Image) error {
	return nil
}

// SaveAnnotatedFrame does nothing.
func (s *Sink) SaveAnnotatedFrame(index int, img image.Image) error {
	return nil
}

// SaveReportJSON does nothing.
func (s *Sink) SaveReportJSON(data []byte) error {
	return nil
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
