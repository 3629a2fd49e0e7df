package mocks

import (
	"image"
	"sync"

	"github.com/user/plantscan/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	InferenceFrames map[int]image.Image
	AnnotatedFrames map[int]image.Image
	ReportJSON      []byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:         enabled,
		InferenceFrames: make(map[int]image.Image),
		AnnotatedFrames: make(map[int]image.Image),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveInferenceFrame(index int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InferenceFrames[index] = img
	return nil
}

func (m *DebugSink) SaveAnnotatedFrame(index int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnnotatedFrames[index] = img
	return nil
}

func (m *DebugSink) SaveReportJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReportJSON = data
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
