package main

import (
	"fmt"

	"github.com/user/plantscan/pkg/adapters/artifactstore"
	"github.com/user/plantscan/pkg/adapters/ffmpegbin"
	"github.com/user/plantscan/pkg/adapters/ffmpegsource"
	"github.com/user/plantscan/pkg/adapters/filesink"
	"github.com/user/plantscan/pkg/adapters/ggrenderer"
	"github.com/user/plantscan/pkg/adapters/h264encoder"
	"github.com/user/plantscan/pkg/adapters/metrics"
	"github.com/user/plantscan/pkg/adapters/mp4probe"
	"github.com/user/plantscan/pkg/adapters/nullsink"
	"github.com/user/plantscan/pkg/adapters/osfilesystem"
	"github.com/user/plantscan/pkg/adapters/roboflow"
	"github.com/user/plantscan/pkg/config"
	"github.com/user/plantscan/pkg/orchestrator"
	"github.com/user/plantscan/pkg/ports"
	"github.com/user/plantscan/pkg/stages/annotate"
	"github.com/user/plantscan/pkg/stages/detect"
	"github.com/user/plantscan/pkg/stages/sample"
)

// app holds the adapters and the orchestrator shared by the commands.
type app struct {
	cfg     config.Config
	log     ports.Logger
	fs      ports.FileSystem
	store   *artifactstore.Store
	metrics *metrics.Prometheus
	orch    *orchestrator.Orchestrator
}

// newStoreOnly wires just the artifact store, for commands that never run
// the pipeline.
func newStoreOnly(cfg config.Config) (*artifactstore.Store, error) {
	store, err := artifactstore.New(osfilesystem.New(), cfg.Paths.Uploads, cfg.Paths.Processed)
	if err != nil {
		return nil, fmt.Errorf("prepare folders: %w", err)
	}
	return store, nil
}

// wire builds every adapter from cfg.
func wire(cfg config.Config, log ports.Logger) (*app, error) {
	ffmpegbin.SetPath("ffmpeg", cfg.FFmpeg.FFmpegPath)
	ffmpegbin.SetPath("ffprobe", cfg.FFmpeg.FFprobePath)

	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	store, err := artifactstore.New(fs, cfg.Paths.Uploads, cfg.Paths.Processed)
	if err != nil {
		return nil, fmt.Errorf("prepare folders: %w", err)
	}

	predictor, err := roboflow.New(cfg.RoboflowConfig(), renderer, log)
	if err != nil {
		return nil, err
	}

	parts := annotate.NewPlantParts(cfg.PlantParts)
	prom := metrics.NewPrometheus(parts.Labels()...)
	prober := ffmpegsource.Chain{mp4probe.New(), ffmpegsource.NewFFprobe()}

	annotator := annotate.NewStage(renderer, parts, cfg.AnnotateStyle(), log)
	detectStage := detect.NewStage(detect.Deps{
		NewDecoder: func() ports.VideoDecoder { return ffmpegsource.New(prober, log) },
		NewEncoder: func() ports.VideoEncoder { return h264encoder.New() },
		Predictor:  predictor,
		Renderer:   renderer,
		Annotator:  annotator,
		Sampler:    sample.New(cfg.SampleConfig()),
		Sink:       nullsink.New(),
		Metrics:    prom,
		Logger:     log,
	}, cfg.DetectOptions())

	var sinks orchestrator.SinkFactory
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return nil, fmt.Errorf("create debug directory: %w", err)
		}
		base := filesink.New(cfg.DebugDir, fs, renderer)
		sinks = func(runID string) ports.DebugSink { return base.ForRun(runID) }
	}

	return &app{
		cfg:     cfg,
		log:     log,
		fs:      fs,
		store:   store,
		metrics: prom,
		orch:    orchestrator.New(detectStage, store, sinks, prom, log),
	}, nil
}
