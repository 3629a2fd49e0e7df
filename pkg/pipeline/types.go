package pipeline

import (
	"image"
	"image/color"

	"github.com/user/plantscan/pkg/ports"
)

// InferenceSize is the square edge, in pixels, that frames are resized to
// before being sent to the detection model.
const InferenceSize = 640

// =============================================================================
// Common Types
// =============================================================================

// Detection is one model finding on one sampled frame.
// Geometry is in InferenceSize x InferenceSize pixel space.
type Detection struct {
	FrameIndex int
	Label      string
	Confidence float64 // 0..1

	// Center point and size of the box
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Box is an axis-aligned rectangle in original-frame pixels.
type Box struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Width returns the horizontal extent of the box.
func (b Box) Width() int { return b.Right - b.Left }

// Height returns the vertical extent of the box.
func (b Box) Height() int { return b.Bottom - b.Top }

// ReportEntry is one line of the detection report returned to the caller.
type ReportEntry struct {
	Frame     int    `json:"frame"`
	Disease   string `json:"disease"`
	PlantType string `json:"plant_type"`
	PlantPart string `json:"plant_part"`
}

// =============================================================================
// Sample Stage Types
// =============================================================================

// SampleConfig controls which frame indices are eligible for inference.
type SampleConfig struct {
	Stride    int // Every Nth frame is eligible (default: 5)
	MaxFrames int // Frame budget; frames at or past it are never read (default: 50)
}

// DefaultSampleConfig returns SampleConfig with default values.
func DefaultSampleConfig() SampleConfig {
	return SampleConfig{
		Stride:    5,
		MaxFrames: 50,
	}
}

// =============================================================================
// Annotate Stage Types
// =============================================================================

// AnnotateStyle defines how boxes and captions are drawn.
type AnnotateStyle struct {
	BoxColor          color.Color
	StrokeWidth       float64
	CaptionBackground color.Color // Alpha channel controls blending
	FontPath          string      // Empty selects the built-in Go font
	FontSize          float64
	CaptionOffset     int // Distance of the caption baseline above the box
	CaptionPadding    int // Padding around the caption background
}

// DefaultAnnotateStyle returns the green box / half-transparent black caption style.
func DefaultAnnotateStyle() AnnotateStyle {
	return AnnotateStyle{
		BoxColor:          color.RGBA{R: 0, G: 255, B: 0, A: 255},
		StrokeWidth:       2,
		CaptionBackground: color.NRGBA{R: 0, G: 0, B: 0, A: 128},
		FontSize:          18,
		CaptionOffset:     10,
		CaptionPadding:    5,
	}
}

// AnnotateInput is one sampled frame together with its detections.
type AnnotateInput struct {
	Frame      *image.RGBA // Drawn on in place
	FrameIndex int
	PlantType  string
	Detections []Detection
}

// AnnotateResult contains the report entries produced for the frame.
type AnnotateResult struct {
	Entries []ReportEntry
}

// =============================================================================
// Detect Stage Types
// =============================================================================

// DetectInput describes a single detection run over one video file.
type DetectInput struct {
	SourcePath string
	OutputPath string
	PlantType  string

	// Sink, when set, receives this run's debug output instead of the
	// stage's default sink.
	Sink ports.DebugSink

	// Progress, when set, is called after every frame written to the output.
	Progress func(written, total int)
}

// DetectResult summarizes a completed detection run.
type DetectResult struct {
	Report []ReportEntry

	Width       int
	Height      int
	FPS         float64
	TotalFrames int // As reported by the container

	FramesWritten int
	SampledFrames int
	UniqueFrames  int
	Detections    int
}
