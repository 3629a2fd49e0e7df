// Package detect implements the frame loop that turns an uploaded video into
// an annotated one.
package detect

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/ideamans/go-l10n"

	"github.com/user/plantscan/pkg/pipeline"
	"github.com/user/plantscan/pkg/ports"
	"github.com/user/plantscan/pkg/stages/dedupe"
	"github.com/user/plantscan/pkg/stages/sample"
)

// Options holds the per-run parameters passed to collaborators.
type Options struct {
	Predict ports.PredictOptions
	Encoder ports.EncoderOptions
}

// DefaultOptions returns the thresholds the model was tuned with and an
// H.264 encoder.
func DefaultOptions() Options {
	return Options{
		Predict: ports.PredictOptions{Confidence: 0.43, Overlap: 0.5},
		Encoder: ports.EncoderOptions{Codec: "libx264"},
	}
}

// Deps are the collaborators of the detect stage. Decoders and encoders are
// stateful, so a fresh pair is created for every run.
type Deps struct {
	NewDecoder func() ports.VideoDecoder
	NewEncoder func() ports.VideoEncoder
	Predictor  ports.Predictor
	Renderer   ports.Renderer
	Annotator  pipeline.Stage[pipeline.AnnotateInput, pipeline.AnnotateResult]
	Sampler    *sample.Sampler
	Sink       ports.DebugSink
	Metrics    ports.Metrics
	Logger     ports.Logger
}

// Stage reads a video sequentially, runs inference on sampled frames,
// annotates them and writes every frame within the budget to the output.
type Stage struct {
	deps Deps
	opts Options
	log  ports.Logger
}

// NewStage creates a new detect stage.
func NewStage(deps Deps, opts Options) *Stage {
	return &Stage{
		deps: deps,
		opts: opts,
		log:  deps.Logger.WithComponent("detect"),
	}
}

// Execute processes one video. On error the output file may hold the frames
// written so far, but the run must be treated as failed.
func (s *Stage) Execute(ctx context.Context, input pipeline.DetectInput) (pipeline.DetectResult, error) {
	result := pipeline.DetectResult{}

	dec := s.deps.NewDecoder()
	defer dec.Close()

	s.log.Info(l10n.T("Opening video..."))
	info, err := dec.Open(ctx, input.SourcePath)
	if err != nil {
		s.log.Error(l10n.F("Failed to open video file: %s", err))
		return result, fmt.Errorf("%w: %w", pipeline.ErrSourceOpen, err)
	}
	s.log.Info(l10n.F("Video stats - FPS: %.2f, Width: %d, Height: %d, Total Frames: %d",
		info.FPS, info.Width, info.Height, info.TotalFrames))

	result.Width = info.Width
	result.Height = info.Height
	result.FPS = info.FPS
	result.TotalFrames = info.TotalFrames

	enc := s.deps.NewEncoder()
	defer enc.Close()

	if err := enc.Begin(ctx, input.OutputPath, info.Width, info.Height, info.FPS, s.opts.Encoder); err != nil {
		s.log.Error(l10n.F("Failed to initialize video writer: %s", err))
		return result, fmt.Errorf("%w: %w", pipeline.ErrSinkInit, err)
	}

	seen := dedupe.New()
	sink := input.Sink
	if sink == nil {
		sink = s.deps.Sink
	}
	budget := s.deps.Sampler.Budget(info.TotalFrames)

	s.log.Info(l10n.T("Starting frame processing..."))
	for index := 0; !s.deps.Sampler.Exhausted(index); index++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		frame, err := dec.ReadFrame()
		if errors.Is(err, io.EOF) {
			s.log.Info(l10n.F("End of video reached after %d frames", index))
			break
		}
		if err != nil {
			return result, fmt.Errorf("read frame %d: %w", index, err)
		}

		if s.deps.Sampler.Eligible(index) {
			if err := s.processSample(ctx, frame, index, input.PlantType, seen, sink, &result); err != nil {
				s.log.Error(l10n.F("Error processing frame %d: %s", index, err))
				return result, err
			}
		}

		s.log.Debug(l10n.F("Writing frame %d to processed video...", index))
		if err := enc.EncodeFrame(frame); err != nil {
			if errors.Is(err, ports.ErrWriterInit) {
				s.log.Error(l10n.F("Failed to initialize video writer: %s", err))
				return result, fmt.Errorf("%w: %w", pipeline.ErrSinkInit, err)
			}
			return result, fmt.Errorf("write frame %d: %w", index, err)
		}
		result.FramesWritten++
		s.deps.Metrics.FrameWritten()

		if input.Progress != nil {
			input.Progress(result.FramesWritten, budget)
		}
	}

	s.log.Info(l10n.T("Releasing video resources"))
	if err := enc.End(); err != nil {
		return result, fmt.Errorf("finalize output: %w", err)
	}

	return result, nil
}

func (s *Stage) processSample(
	ctx context.Context,
	frame *image.RGBA,
	index int,
	plantType string,
	seen *dedupe.Set,
	sink ports.DebugSink,
	result *pipeline.DetectResult,
) error {
	s.log.Info(l10n.F("Processing frame %d...", index))

	resized := s.deps.Renderer.ResizeImage(frame, pipeline.InferenceSize, pipeline.InferenceSize)
	result.SampledFrames++
	s.deps.Metrics.FrameSampled()

	if fp, isNew := seen.Observe(resized); isNew {
		result.UniqueFrames++
		s.deps.Metrics.UniqueFrame()
		s.log.Debug(l10n.F("New unique frame detected: %016x", fp))
	}

	if sink.Enabled() {
		if err := sink.SaveInferenceFrame(index, resized); err != nil {
			s.log.Warn(l10n.F("Failed to save debug frame %d: %s", index, err))
		}
	}

	predictions, err := s.deps.Predictor.Predict(ctx, resized, s.opts.Predict)
	if err != nil {
		return fmt.Errorf("%w: frame %d: %w", pipeline.ErrInference, index, err)
	}
	s.log.Debug(l10n.F("Predictions for frame %d: %d", index, len(predictions)))

	detections, err := toDetections(index, predictions)
	if err != nil {
		return fmt.Errorf("%w: frame %d: %w", pipeline.ErrInference, index, err)
	}
	if len(detections) == 0 {
		return nil
	}

	annotated, err := s.deps.Annotator.Execute(ctx, pipeline.AnnotateInput{
		Frame:      frame,
		FrameIndex: index,
		PlantType:  plantType,
		Detections: detections,
	})
	if err != nil {
		return fmt.Errorf("annotate frame %d: %w", index, err)
	}

	for _, d := range detections {
		s.deps.Metrics.Detection(d.Label)
	}
	result.Detections += len(detections)
	result.Report = append(result.Report, annotated.Entries...)

	if sink.Enabled() {
		if err := sink.SaveAnnotatedFrame(index, frame); err != nil {
			s.log.Warn(l10n.F("Failed to save debug frame %d: %s", index, err))
		}
	}
	return nil
}

// toDetections validates raw predictions and tags them with the frame index.
func toDetections(index int, predictions []ports.Prediction) ([]pipeline.Detection, error) {
	detections := make([]pipeline.Detection, 0, len(predictions))
	for i, p := range predictions {
		if p.Class == "" {
			return nil, fmt.Errorf("prediction %d has no class", i)
		}
		if !finite(p.X, p.Y, p.Width, p.Height, p.Confidence) {
			return nil, fmt.Errorf("prediction %d has non-finite values", i)
		}
		if p.Confidence < 0 || p.Confidence > 1 {
			return nil, fmt.Errorf("prediction %d confidence %v out of range", i, p.Confidence)
		}
		if p.Width < 0 || p.Height < 0 {
			return nil, fmt.Errorf("prediction %d has negative size", i)
		}
		detections = append(detections, pipeline.Detection{
			FrameIndex: index,
			Label:      p.Class,
			Confidence: p.Confidence,
			X:          p.X,
			Y:          p.Y,
			Width:      p.Width,
			Height:     p.Height,
		})
	}
	return detections, nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
