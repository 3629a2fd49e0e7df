package mocks

import (
	"sync"
	"time"

	"github.com/user/plantscan/pkg/ports"
)

// Metrics records counter updates in memory.
type Metrics struct {
	mu sync.Mutex

	Written    int
	Sampled    int
	Unique     int
	Detections map[string]int
	Outcomes   []string
}

// NewMetrics creates a new mock Metrics.
func NewMetrics() *Metrics {
	return &Metrics{Detections: make(map[string]int)}
}

func (m *Metrics) FrameWritten() { m.mu.Lock(); m.Written++; m.mu.Unlock() }
func (m *Metrics) FrameSampled() { m.mu.Lock(); m.Sampled++; m.mu.Unlock() }
func (m *Metrics) UniqueFrame()  { m.mu.Lock(); m.Unique++; m.mu.Unlock() }

func (m *Metrics) Detection(label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Detections[label]++
}

func (m *Metrics) RunFinished(outcome string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Outcomes = append(m.Outcomes, outcome)
}

var _ ports.Metrics = (*Metrics)(nil)
