// Package orchestrator runs one detection request from upload to verified
// output file.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ideamans/go-l10n"
	"github.com/user/plantscan/pkg/pipeline"
	"github.com/user/plantscan/pkg/ports"
)

// Run outcomes reported to ports.Metrics.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Request is an uploaded video to be processed.
type Request struct {
	Video     io.Reader
	PlantType string

	// Progress, when set, is called after every frame written.
	Progress func(written, total int)
}

// FileRequest processes a video that is already on disk.
type FileRequest struct {
	SourcePath string
	OutputPath string // Empty selects a path in the processed folder
	PlantType  string
	Progress   func(written, total int)
}

// SinkFactory returns the debug sink for one run.
type SinkFactory func(runID string) ports.DebugSink

// Orchestrator coordinates upload storage, the detect stage and output
// verification.
type Orchestrator struct {
	detectStage pipeline.Stage[pipeline.DetectInput, pipeline.DetectResult]
	store       ports.ArtifactStore
	sinks       SinkFactory
	metrics     ports.Metrics
	logger      ports.Logger

	newID func() string
	now   func() time.Time
}

// New creates a new Orchestrator. sinks may be nil when debug output is off.
func New(
	detectStage pipeline.Stage[pipeline.DetectInput, pipeline.DetectResult],
	store ports.ArtifactStore,
	sinks SinkFactory,
	metrics ports.Metrics,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		detectStage: detectStage,
		store:       store,
		sinks:       sinks,
		metrics:     metrics,
		logger:      logger.WithComponent("orchestrator"),
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// Run stores the uploaded video and processes it.
func (o *Orchestrator) Run(ctx context.Context, req Request) (RunResult, error) {
	start := o.now()

	if req.Video == nil || strings.TrimSpace(req.PlantType) == "" {
		o.finish(OutcomeInvalid, start)
		return RunResult{}, pipeline.ErrInputMissing
	}

	runID := o.newID()
	o.logger.Info(l10n.F("Starting detection run %s", runID))

	sourcePath, err := o.store.SaveUpload(runID, req.Video)
	if err != nil {
		o.logger.Error(l10n.F("Failed to save upload: %s", err))
		o.finish(outcomeOf(err), start)
		return RunResult{}, fmt.Errorf("save upload: %w", err)
	}
	o.logger.Info(l10n.F("Saved upload to %s", sourcePath))

	return o.process(ctx, runID, start, FileRequest{
		SourcePath: sourcePath,
		OutputPath: o.store.OutputPath(runID),
		PlantType:  req.PlantType,
		Progress:   req.Progress,
	})
}

// RunFile processes a local video without copying it into the upload folder.
func (o *Orchestrator) RunFile(ctx context.Context, req FileRequest) (RunResult, error) {
	start := o.now()

	if req.SourcePath == "" || strings.TrimSpace(req.PlantType) == "" {
		o.finish(OutcomeInvalid, start)
		return RunResult{}, pipeline.ErrInputMissing
	}

	runID := o.newID()
	o.logger.Info(l10n.F("Starting detection run %s", runID))

	if req.OutputPath == "" {
		req.OutputPath = o.store.OutputPath(runID)
	}
	return o.process(ctx, runID, start, req)
}

func (o *Orchestrator) process(ctx context.Context, runID string, start time.Time, req FileRequest) (RunResult, error) {
	sink := o.sinkFor(runID)

	detected, err := o.detectStage.Execute(ctx, pipeline.DetectInput{
		SourcePath: req.SourcePath,
		OutputPath: req.OutputPath,
		PlantType:  req.PlantType,
		Sink:       sink,
		Progress:   req.Progress,
	})
	if err != nil {
		o.logger.Error(l10n.F("Detection run %s failed: %s", runID, err))
		o.finish(OutcomeError, start)
		return RunResult{}, fmt.Errorf("detect stage: %w", err)
	}

	artifact, err := o.store.Stat(req.OutputPath)
	if err != nil {
		o.logger.Error(l10n.F("Processed video not found at %s", req.OutputPath))
		o.finish(OutcomeError, start)
		return RunResult{}, err
	}
	o.logger.Info(l10n.F("Processed video saved to %s", artifact.Path))

	report := detected.Report
	if report == nil {
		report = []pipeline.ReportEntry{}
	}

	if sink != nil && sink.Enabled() {
		if data, err := json.MarshalIndent(report, "", "  "); err == nil {
			if err := sink.SaveReportJSON(data); err != nil {
				o.logger.Warn(l10n.F("Failed to save debug report: %s", err))
			}
		}
	}

	elapsed := o.finish(OutcomeSuccess, start)
	o.logger.Info(l10n.F("Run %s completed: %d frames, %d detections", runID, detected.FramesWritten, detected.Detections))

	return RunResult{
		RunID:         runID,
		SourcePath:    req.SourcePath,
		OutputPath:    artifact.Path,
		OutputSize:    artifact.Size,
		PlantType:     req.PlantType,
		Report:        report,
		Width:         detected.Width,
		Height:        detected.Height,
		FPS:           detected.FPS,
		TotalFrames:   detected.TotalFrames,
		FramesWritten: detected.FramesWritten,
		SampledFrames: detected.SampledFrames,
		UniqueFrames:  detected.UniqueFrames,
		Detections:    detected.Detections,
		Duration:      elapsed,
		FinishedAt:    start.Add(elapsed),
	}, nil
}

func (o *Orchestrator) sinkFor(runID string) ports.DebugSink {
	if o.sinks == nil {
		return nil
	}
	return o.sinks(runID)
}

func (o *Orchestrator) finish(outcome string, start time.Time) time.Duration {
	elapsed := o.now().Sub(start)
	o.metrics.RunFinished(outcome, elapsed)
	return elapsed
}

func outcomeOf(err error) string {
	if errors.Is(err, pipeline.ErrInputMissing) {
		return OutcomeInvalid
	}
	return OutcomeError
}

// RunResult describes a completed run.
type RunResult struct {
	RunID      string
	SourcePath string
	OutputPath string
	OutputSize int64
	PlantType  string

	// Report is never nil; an empty slice means nothing was detected.
	Report []pipeline.ReportEntry

	// Video information
	Width       int
	Height      int
	FPS         float64
	TotalFrames int

	// Processing counters
	FramesWritten int
	SampledFrames int
	UniqueFrames  int
	Detections    int

	Duration   time.Duration
	FinishedAt time.Time
}
