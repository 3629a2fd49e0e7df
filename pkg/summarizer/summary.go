// Package summarizer provides summary generation for detection runs.
package summarizer

import (
	"sort"
	"time"

	"github.com/user/plantscan/pkg/pipeline"
)

// Summary contains all data collected during a detection run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Run identification
	Run RunInfo

	// Source video facts
	Video VideoInfo

	// Sampling and inference counters
	Processing ProcessingInfo

	// Detection settings
	Settings Settings

	// Report lines in frame order
	Report []pipeline.ReportEntry
}

// RunInfo identifies a run and its files.
type RunInfo struct {
	ID         string
	PlantType  string
	SourcePath string
	OutputPath string
	OutputSize int64
	Duration   time.Duration
}

// VideoInfo contains information about the source video.
type VideoInfo struct {
	Width       int
	Height      int
	FPS         float64
	TotalFrames int
}

// ProcessingInfo contains the pipeline counters.
type ProcessingInfo struct {
	FramesWritten int
	SampledFrames int
	UniqueFrames  int
	Detections    int
}

// Settings contains the detection configuration.
type Settings struct {
	Model      string // project/version
	Stride     int
	MaxFrames  int
	Confidence float64
	Overlap    float64
}

// DiseaseCount is the number of report lines for one disease label.
type DiseaseCount struct {
	Disease   string
	PlantPart string
	Count     int
	Frames    []int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// DiseaseCounts groups the report by disease, most frequent first.
func (s *Summary) DiseaseCounts() []DiseaseCount {
	index := make(map[string]int)
	var counts []DiseaseCount

	for _, entry := range s.Report {
		i, ok := index[entry.Disease]
		if !ok {
			i = len(counts)
			index[entry.Disease] = i
			counts = append(counts, DiseaseCount{Disease: entry.Disease, PlantPart: entry.PlantPart})
		}
		counts[i].Count++
		if n := len(counts[i].Frames); n == 0 || counts[i].Frames[n-1] != entry.Frame {
			counts[i].Frames = append(counts[i].Frames, entry.Frame)
		}
	}

	sort.SliceStable(counts, func(a, b int) bool {
		if counts[a].Count != counts[b].Count {
			return counts[a].Count > counts[b].Count
		}
		return counts[a].Disease < counts[b].Disease
	})
	return counts
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithRun sets run identification.
func (b *Builder) WithRun(run RunInfo) *Builder {
	b.summary.Run = run
	return b
}

// WithVideo sets source video information.
func (b *Builder) WithVideo(width, height int, fps float64, totalFrames int) *Builder {
	b.summary.Video = VideoInfo{
		Width:       width,
		Height:      height,
		FPS:         fps,
		TotalFrames: totalFrames,
	}
	return b
}

// WithProcessing sets the pipeline counters.
func (b *Builder) WithProcessing(processing ProcessingInfo) *Builder {
	b.summary.Processing = processing
	return b
}

// WithSettings sets detection settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithReport sets the report lines.
func (b *Builder) WithReport(report []pipeline.ReportEntry) *Builder {
	b.summary.Report = report
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
