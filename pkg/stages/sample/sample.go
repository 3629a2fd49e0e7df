// Package sample decides which decoded frames are submitted for inference.
package sample

import "github.com/user/plantscan/pkg/pipeline"

// Sampler selects every Stride-th frame below the MaxFrames budget.
// It holds no state and is safe for concurrent use.
type Sampler struct {
	stride    int
	maxFrames int
}

// New creates a Sampler. Non-positive values fall back to the defaults.
func New(cfg pipeline.SampleConfig) *Sampler {
	def := pipeline.DefaultSampleConfig()
	if cfg.Stride <= 0 {
		cfg.Stride = def.Stride
	}
	if cfg.MaxFrames <= 0 {
		cfg.MaxFrames = def.MaxFrames
	}
	return &Sampler{stride: cfg.Stride, maxFrames: cfg.MaxFrames}
}

// Eligible reports whether the frame at index should be sent for inference.
func (s *Sampler) Eligible(index int) bool {
	return index >= 0 && index < s.maxFrames && index%s.stride == 0
}

// Exhausted reports whether the frame budget has been spent, i.e. the frame
// at index must not be read at all.
func (s *Sampler) Exhausted(index int) bool {
	return index >= s.maxFrames
}

// Budget returns how many frames a video of total frames will produce.
// An unknown total (0 or less) yields the full budget.
func (s *Sampler) Budget(total int) int {
	if total <= 0 || total > s.maxFrames {
		return s.maxFrames
	}
	return total
}

// Config returns the effective configuration.
func (s *Sampler) Config() pipeline.SampleConfig {
	return pipeline.SampleConfig{Stride: s.stride, MaxFrames: s.maxFrames}
}
