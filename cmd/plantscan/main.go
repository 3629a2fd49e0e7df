// Package main provides the CLI entry point for plantscan.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/plantscan/pkg/adapters/logger"
	"github.com/user/plantscan/pkg/config"
	"github.com/user/plantscan/pkg/ports"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "plantscan",
		Usage:   l10n.T("Detect plant diseases in videos"),
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    l10n.T("Path to a YAML configuration file"),
				EnvVars:  []string{"PLANTSCAN_CONFIG"},
				Category: l10n.T("Configuration"),
			},
			&cli.StringFlag{
				Name:     "log-level",
				Aliases:  []string{"l"},
				Usage:    l10n.T("Log level (debug, info, warn, error)"),
				Category: l10n.T("Logging"),
			},
			&cli.BoolFlag{
				Name:     "quiet",
				Aliases:  []string{"Q"},
				Usage:    l10n.T("Suppress all log output"),
				Category: l10n.T("Logging"),
			},
			&cli.BoolFlag{
				Name:     "debug",
				Aliases:  []string{"d"},
				Usage:    l10n.T("Save sampled frames and reports for every run"),
				Category: l10n.T("Debug"),
			},
			&cli.StringFlag{
				Name:     "debug-dir",
				Usage:    l10n.T("Directory for debug output"),
				Category: l10n.T("Debug"),
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			detectCommand(),
			latestCommand(),
			versionCommand(),
		},
	}
}

// loadConfig reads the configuration and applies global flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.Bool("debug") {
		cfg.Debug = true
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}
	return cfg, nil
}

func newLogger(c *cli.Context, cfg config.Config) ports.Logger {
	if c.Bool("quiet") {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn(l10n.T("Interrupted, shutting down..."))
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

func exitError(err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return cli.Exit(err.Error(), 1)
}
