// Package annotate implements the stage that draws detections onto frames.
package annotate

import (
	"context"
	"fmt"

	"github.com/ideamans/go-l10n"

	"github.com/user/plantscan/pkg/pipeline"
	"github.com/user/plantscan/pkg/ports"
)

// Stage draws a box and a caption for every detection of a frame and
// produces the matching report entries.
type Stage struct {
	renderer ports.Renderer
	parts    PlantParts
	style    pipeline.AnnotateStyle
	logger   ports.Logger
}

// NewStage creates a new annotate stage.
func NewStage(renderer ports.Renderer, parts PlantParts, style pipeline.AnnotateStyle, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		parts:    parts,
		style:    style,
		logger:   logger.WithComponent("annotate"),
	}
}

// Execute annotates input.Frame in place.
func (s *Stage) Execute(ctx context.Context, input pipeline.AnnotateInput) (pipeline.AnnotateResult, error) {
	result := pipeline.AnnotateResult{}
	if len(input.Detections) == 0 {
		return result, nil
	}
	if input.Frame == nil {
		return result, fmt.Errorf("annotate frame %d: no frame", input.FrameIndex)
	}

	bounds := input.Frame.Bounds()
	canvas := s.renderer.Canvas(input.Frame)
	textStyle := ports.TextStyle{
		FontSize: s.style.FontSize,
		FontPath: s.style.FontPath,
		Color:    s.style.BoxColor,
	}

	for _, d := range input.Detections {
		part := s.parts.Lookup(d.Label)
		s.logger.Info(l10n.F("Disease detected - Frame: %d, Label: %s, Part: %s", input.FrameIndex, d.Label, part))

		box := Rescale(d, bounds.Dx(), bounds.Dy())
		canvas.DrawRectStroke(box.Left, box.Top, box.Width(), box.Height(), s.style.BoxColor, s.style.StrokeWidth)

		caption := Caption(input.FrameIndex, d.Label, part, d.Confidence)
		tw, th, err := canvas.MeasureText(caption, textStyle)
		if err != nil {
			return result, fmt.Errorf("measure caption on frame %d: %w", input.FrameIndex, err)
		}
		textW, textH := int(tw), int(th)

		tx := box.Left
		ty := box.Top - s.style.CaptionOffset
		pad := s.style.CaptionPadding
		canvas.DrawRect(tx-pad, ty-textH-pad, textW+2*pad, textH+2*pad, s.style.CaptionBackground)

		if err := canvas.DrawText(caption, tx, ty, textStyle); err != nil {
			return result, fmt.Errorf("draw caption on frame %d: %w", input.FrameIndex, err)
		}

		result.Entries = append(result.Entries, pipeline.ReportEntry{
			Frame:     input.FrameIndex,
			Disease:   d.Label,
			PlantType: input.PlantType,
			PlantPart: part,
		})
	}

	return result, nil
}
