// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/user/plantscan/pkg/adapters/roboflow"
	"github.com/user/plantscan/pkg/pipeline"
	"github.com/user/plantscan/pkg/ports"
	"github.com/user/plantscan/pkg/stages/detect"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvAPIKey   = "PLANTSCAN_ROBOFLOW_API_KEY"
	EnvListen   = "PLANTSCAN_LISTEN"
	EnvLogLevel = "PLANTSCAN_LOG_LEVEL"
	EnvDebug    = "PLANTSCAN_DEBUG"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid configuration")

// Config represents the full configuration for plantscan.
type Config struct {
	LogLevel string `yaml:"log_level"`

	Paths     PathsConfig     `yaml:"paths"`
	Server    ServerConfig    `yaml:"server"`
	Sample    SampleConfig    `yaml:"sample"`
	Inference InferenceConfig `yaml:"inference"`
	Encoder   EncoderConfig   `yaml:"encoder"`
	Style     StyleConfig     `yaml:"style"`
	FFmpeg    FFmpegConfig    `yaml:"ffmpeg"`

	// PlantParts maps model labels to plant parts, on top of the built-in table.
	PlantParts map[string]string `yaml:"plant_parts"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// PathsConfig locates the upload and output folders.
type PathsConfig struct {
	Uploads   string `yaml:"uploads"`
	Processed string `yaml:"processed"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Listen          string        `yaml:"listen"`
	RateLimit       int           `yaml:"rate_limit"` // Requests per minute per client IP; 0 disables
	MaxUploadMB     int64         `yaml:"max_upload_mb"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SampleConfig selects frames for inference.
type SampleConfig struct {
	Stride    int `yaml:"stride"`
	MaxFrames int `yaml:"max_frames"`
}

// InferenceConfig identifies the hosted model and its thresholds.
type InferenceConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Project     string        `yaml:"project"`
	Version     int           `yaml:"version"`
	Confidence  float64       `yaml:"confidence"`
	Overlap     float64       `yaml:"overlap"`
	Timeout     time.Duration `yaml:"timeout"`
	JPEGQuality int           `yaml:"jpeg_quality"`
}

// EncoderConfig configures the output video.
type EncoderConfig struct {
	Codec   string `yaml:"codec"`
	Preset  string `yaml:"preset"`
	Quality int    `yaml:"quality"`
}

// StyleConfig controls annotation drawing.
type StyleConfig struct {
	BoxColor          string  `yaml:"box_color"`
	StrokeWidth       float64 `yaml:"stroke_width"`
	CaptionBackground string  `yaml:"caption_background"` // #rrggbbaa keeps the alpha
	FontPath          string  `yaml:"font_path"`
	FontSize          float64 `yaml:"font_size"`
	CaptionOffset     int     `yaml:"caption_offset"`
	CaptionPadding    int     `yaml:"caption_padding"`
}

// FFmpegConfig pins the ffmpeg and ffprobe executables.
type FFmpegConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	rf := roboflow.DefaultConfig()
	sample := pipeline.DefaultSampleConfig()
	opts := detect.DefaultOptions()

	return Config{
		LogLevel: "info",

		Paths: PathsConfig{
			Uploads:   "uploads",
			Processed: "processed_videos",
		},

		Server: ServerConfig{
			Listen:          ":5000",
			RateLimit:       30,
			MaxUploadMB:     512,
			ReadTimeout:     5 * time.Minute,
			WriteTimeout:    15 * time.Minute,
			ShutdownTimeout: 30 * time.Second,
		},

		Sample: SampleConfig{
			Stride:    sample.Stride,
			MaxFrames: sample.MaxFrames,
		},

		Inference: InferenceConfig{
			BaseURL:     rf.BaseURL,
			Project:     rf.Project,
			Version:     rf.Version,
			Confidence:  opts.Predict.Confidence,
			Overlap:     opts.Predict.Overlap,
			Timeout:     rf.Timeout,
			JPEGQuality: rf.JPEGQuality,
		},

		Encoder: EncoderConfig{
			Codec:   opts.Encoder.Codec,
			Preset:  "fast",
			Quality: 23,
		},

		Style: StyleConfig{
			BoxColor:          "#00ff00",
			StrokeWidth:       2,
			CaptionBackground: "#00000080",
			FontSize:          18,
			CaptionOffset:     10,
			CaptionPadding:    5,
		},

		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Load reads .env files, the optional YAML file and environment overrides,
// then validates the result. An empty path skips the YAML file.
func Load(path string, envFiles ...string) (Config, error) {
	if err := LoadEnv(envFiles...); err != nil {
		return Config{}, err
	}

	cfg := Defaults()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return cfg, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadEnv loads variables from .env files without overriding ones already
// set. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from the process environment.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.Inference.APIKey = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvDebug); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalid, EnvDebug, v)
		}
		c.Debug = b
	}
	return nil
}

// Validate checks value ranges and colors.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Sample.Stride > 0, "sample.stride must be positive, got %d", c.Sample.Stride)
	check(c.Sample.MaxFrames > 0, "sample.max_frames must be positive, got %d", c.Sample.MaxFrames)
	check(c.Inference.Confidence >= 0 && c.Inference.Confidence <= 1, "inference.confidence must be within 0..1, got %v", c.Inference.Confidence)
	check(c.Inference.Overlap >= 0 && c.Inference.Overlap <= 1, "inference.overlap must be within 0..1, got %v", c.Inference.Overlap)
	check(c.Encoder.Quality >= 0 && c.Encoder.Quality <= 51, "encoder.quality must be within 0..51, got %d", c.Encoder.Quality)
	check(c.Style.FontSize > 0, "style.font_size must be positive, got %v", c.Style.FontSize)
	check(c.Paths.Uploads != "" && c.Paths.Processed != "", "paths.uploads and paths.processed are required")
	check(c.Server.RateLimit >= 0, "server.rate_limit must not be negative")

	if _, err := ParseColor(c.Style.BoxColor); err != nil {
		errs = append(errs, fmt.Errorf("style.box_color: %w", err))
	}
	if _, err := ParseColor(c.Style.CaptionBackground); err != nil {
		errs = append(errs, fmt.Errorf("style.caption_background: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// ParseColor parses #rgb, #rrggbb or #rrggbbaa.
func ParseColor(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", hex)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", hex)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// SampleConfig converts to the sampler settings.
func (c Config) SampleConfig() pipeline.SampleConfig {
	return pipeline.SampleConfig{
		Stride:    c.Sample.Stride,
		MaxFrames: c.Sample.MaxFrames,
	}
}

// AnnotateStyle converts to the drawing style. Colors must have passed Validate.
func (c Config) AnnotateStyle() pipeline.AnnotateStyle {
	style := pipeline.DefaultAnnotateStyle()
	if box, err := ParseColor(c.Style.BoxColor); err == nil {
		style.BoxColor = box
	}
	if bg, err := ParseColor(c.Style.CaptionBackground); err == nil {
		style.CaptionBackground = bg
	}
	style.StrokeWidth = c.Style.StrokeWidth
	style.FontPath = c.Style.FontPath
	style.FontSize = c.Style.FontSize
	style.CaptionOffset = c.Style.CaptionOffset
	style.CaptionPadding = c.Style.CaptionPadding
	return style
}

// DetectOptions converts to the detect stage options.
func (c Config) DetectOptions() detect.Options {
	return detect.Options{
		Predict: ports.PredictOptions{
			Confidence: c.Inference.Confidence,
			Overlap:    c.Inference.Overlap,
		},
		Encoder: ports.EncoderOptions{
			Codec:   c.Encoder.Codec,
			Preset:  c.Encoder.Preset,
			Quality: c.Encoder.Quality,
		},
	}
}

// RoboflowConfig converts to the inference client settings.
func (c Config) RoboflowConfig() roboflow.Config {
	return roboflow.Config{
		BaseURL:     c.Inference.BaseURL,
		APIKey:      c.Inference.APIKey,
		Project:     c.Inference.Project,
		Version:     c.Inference.Version,
		Timeout:     c.Inference.Timeout,
		JPEGQuality: c.Inference.JPEGQuality,
	}
}
