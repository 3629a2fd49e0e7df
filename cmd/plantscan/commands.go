package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ideamans/go-l10n"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"github.com/user/plantscan/pkg/orchestrator"
	"github.com/user/plantscan/pkg/server"
	"github.com/user/plantscan/pkg/summarizer"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: l10n.T("Start the HTTP server"),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: l10n.T("Address to listen on (default: :5000)"),
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return exitError(err)
			}
			if c.IsSet("listen") {
				cfg.Server.Listen = c.String("listen")
			}

			log := newLogger(c, cfg)
			a, err := wire(cfg, log)
			if err != nil {
				return exitError(err)
			}

			ctx, cancel := signalContext(log)
			defer cancel()

			srv := server.New(a.orch, a.store, server.Options{
				Listen:          cfg.Server.Listen,
				RateLimit:       cfg.Server.RateLimit,
				MaxUploadBytes:  cfg.Server.MaxUploadMB << 20,
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
				Metrics:         a.metrics.Handler(),
			}, log)

			return exitError(srv.ListenAndServe(ctx))
		},
	}
}

func detectCommand() *cli.Command {
	return &cli.Command{
		Name:      "detect",
		Usage:     l10n.T("Detect diseases in a local video"),
		ArgsUsage: "[video]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   l10n.T("Input video file path"),
			},
			&cli.StringFlag{
				Name:     "plant-type",
				Aliases:  []string{"p"},
				Usage:    l10n.T("Plant type shown in captions (e.g., tomato)"),
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   l10n.T("Output MP4 file path (default: in the processed folder)"),
			},
			&cli.StringFlag{
				Name:  "summary",
				Usage: l10n.T("Output execution summary to file (Markdown format)"),
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: l10n.T("Hide the progress bar"),
			},
		},
		Action: func(c *cli.Context) error {
			input := c.String("input")
			if input == "" {
				input = c.Args().First()
			}
			if input == "" {
				return cli.Exit(l10n.T("Video argument is required"), 1)
			}

			cfg, err := loadConfig(c)
			if err != nil {
				return exitError(err)
			}
			log := newLogger(c, cfg)
			a, err := wire(cfg, log)
			if err != nil {
				return exitError(err)
			}

			ctx, cancel := signalContext(log)
			defer cancel()

			req := orchestrator.FileRequest{
				SourcePath: input,
				OutputPath: c.String("output"),
				PlantType:  c.String("plant-type"),
			}
			var bar *progressbar.ProgressBar
			if !c.Bool("no-progress") && !c.Bool("quiet") {
				req.Progress = func(written, total int) {
					if bar == nil {
						bar = progressbar.NewOptions(total,
							progressbar.OptionSetDescription(l10n.T("Processing frames")),
							progressbar.OptionSetWriter(os.Stderr),
							progressbar.OptionShowCount(),
						)
					}
					bar.Set(written)
				}
			}

			log.Info(l10n.F("Detecting %s diseases in %s...", req.PlantType, input))
			result, err := a.orch.RunFile(ctx, req)
			if bar != nil {
				bar.Finish()
				fmt.Fprintln(os.Stderr)
			}
			if err != nil {
				return exitError(err)
			}

			for _, entry := range result.Report {
				fmt.Println(l10n.F("Frame %d: %s detected on %s of %s plant", entry.Frame, entry.Disease, entry.PlantPart, entry.PlantType))
			}
			if len(result.Report) == 0 {
				fmt.Println(l10n.T("No diseases detected."))
			}
			log.Info(l10n.F("Output saved to %s", result.OutputPath))

			if path := c.String("summary"); path != "" {
				summary := buildSummary(a, result)
				writer := summarizer.NewWriter(summarizer.NewMarkdownFormatter(
					summarizer.WithTranslator(l10n.T),
					summarizer.WithVersion(version),
				), a.fs)
				if err := writer.Write(path, summary); err != nil {
					log.Warn(l10n.F("Failed to write summary: %s", err))
				} else {
					log.Info(l10n.F("Summary saved to %s", path))
				}
			}
			return nil
		},
	}
}

func latestCommand() *cli.Command {
	return &cli.Command{
		Name:  "latest",
		Usage: l10n.T("Print the path of the most recent processed video"),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return exitError(err)
			}
			store, err := newStoreOnly(cfg)
			if err != nil {
				return exitError(err)
			}

			artifact, err := store.Latest()
			if err != nil {
				return exitError(err)
			}
			abs, err := filepath.Abs(artifact.Path)
			if err != nil {
				abs = artifact.Path
			}
			fmt.Println(abs)
			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: l10n.T("Show version information"),
		Action: func(c *cli.Context) error {
			fmt.Println(l10n.F("plantscan version %s", version))
			return nil
		},
	}
}

func buildSummary(a *app, result orchestrator.RunResult) *summarizer.Summary {
	cfg := a.cfg
	return summarizer.NewBuilder().
		WithRun(summarizer.RunInfo{
			ID:         result.RunID,
			PlantType:  result.PlantType,
			SourcePath: result.SourcePath,
			OutputPath: result.OutputPath,
			OutputSize: result.OutputSize,
			Duration:   result.Duration,
		}).
		WithVideo(result.Width, result.Height, result.FPS, result.TotalFrames).
		WithProcessing(summarizer.ProcessingInfo{
			FramesWritten: result.FramesWritten,
			SampledFrames: result.SampledFrames,
			UniqueFrames:  result.UniqueFrames,
			Detections:    result.Detections,
		}).
		WithSettings(summarizer.Settings{
			Model:      fmt.Sprintf("%s/%d", cfg.Inference.Project, cfg.Inference.Version),
			Stride:     cfg.Sample.Stride,
			MaxFrames:  cfg.Sample.MaxFrames,
			Confidence: cfg.Inference.Confidence,
			Overlap:    cfg.Inference.Overlap,
		}).
		WithReport(result.Report).
		Build()
}
