package annotate

import (
	"fmt"

	"github.com/user/plantscan/pkg/pipeline"
)

// Rescale maps a detection from inference space onto a frame of the given
// size. Each axis is scaled independently and truncated to whole pixels
// before the center and size are turned into corners.
func Rescale(d pipeline.Detection, frameWidth, frameHeight int) pipeline.Box {
	scaleX := float64(frameWidth) / pipeline.InferenceSize
	scaleY := float64(frameHeight) / pipeline.InferenceSize

	x := int(d.X * scaleX)
	y := int(d.Y * scaleY)
	w := int(d.Width * scaleX)
	h := int(d.Height * scaleY)

	return pipeline.Box{
		Left:   x - w/2,
		Top:    y - h/2,
		Right:  x + w/2,
		Bottom: y + h/2,
	}
}

// Caption formats the label drawn above a detection box. The confidence is
// shown as a whole percentage, truncated.
func Caption(frameIndex int, label, part string, confidence float64) string {
	return fmt.Sprintf("Frame %d: %s on %s (%d%%)", frameIndex, label, part, Percent(confidence))
}

// Percent converts a 0..1 confidence to a truncated whole percentage.
// The epsilon keeps values like 0.29 from rendering as 28.
func Percent(confidence float64) int {
	return int(confidence*100 + 1e-9)
}
