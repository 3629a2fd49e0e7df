// Package roboflow calls the hosted Roboflow object detection API.
package roboflow

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/user/plantscan/pkg/ports"
)

const (
	DefaultBaseURL     = "https://detect.roboflow.com"
	DefaultProject     = "tomato-disease-b518h"
	DefaultVersion     = 3
	DefaultTimeout     = 30 * time.Second
	DefaultJPEGQuality = 90

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 512
)

var (
	// ErrMissingAPIKey is returned by New when no API key is configured.
	ErrMissingAPIKey = errors.New("roboflow: api key is required")

	// ErrStatus is returned for non-2xx responses.
	ErrStatus = errors.New("roboflow: unexpected response status")

	// ErrMalformed is returned when the response body cannot be decoded.
	ErrMalformed = errors.New("roboflow: malformed response")
)

// Config identifies the hosted model.
type Config struct {
	BaseURL     string
	APIKey      string
	Project     string
	Version     int
	Timeout     time.Duration
	JPEGQuality int
}

// DefaultConfig returns the tomato disease model settings without an API key.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		Project:     DefaultProject,
		Version:     DefaultVersion,
		Timeout:     DefaultTimeout,
		JPEGQuality: DefaultJPEGQuality,
	}
}

// Client implements ports.Predictor.
type Client struct {
	cfg      Config
	http     *http.Client
	renderer ports.Renderer
	logger   ports.Logger
}

// New creates a client. Images are JPEG-encoded through renderer.
func New(cfg Config, renderer ports.Renderer, logger ports.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Project == "" {
		cfg.Project = def.Project
	}
	if cfg.Version <= 0 {
		cfg.Version = def.Version
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.JPEGQuality <= 0 {
		cfg.JPEGQuality = def.JPEGQuality
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.Timeout},
		renderer: renderer,
		logger:   logger.WithComponent("roboflow"),
	}, nil
}

type predictionJSON struct {
	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
	Width      *float64 `json:"width"`
	Height     *float64 `json:"height"`
	Class      string   `json:"class"`
	Confidence *float64 `json:"confidence"`
}

type responseJSON struct {
	Predictions []predictionJSON `json:"predictions"`
}

// Predict sends img to the model and returns its predictions.
func (c *Client) Predict(ctx context.Context, img image.Image, opts ports.PredictOptions) ([]ports.Prediction, error) {
	jpg, err := c.renderer.EncodeImage(img, ports.FormatJPEG, c.cfg.JPEGQuality)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}

	body := base64.StdEncoding.EncodeToString(jpg)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(opts), strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("roboflow request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, fmt.Errorf("%w: %d: %s", ErrStatus, resp.StatusCode, msg)
	}

	preds, err := parsePredictions(data)
	if err != nil {
		return nil, err
	}

	c.logger.Debug(l10n.F("Received %d predictions in %dms", len(preds), time.Since(start).Milliseconds()))
	return preds, nil
}

// endpoint builds the request URL. Thresholds are sent as whole percents.
func (c *Client) endpoint(opts ports.PredictOptions) string {
	q := url.Values{}
	q.Set("api_key", c.cfg.APIKey)
	q.Set("confidence", strconv.Itoa(percent(opts.Confidence)))
	q.Set("overlap", strconv.Itoa(percent(opts.Overlap)))

	return fmt.Sprintf("%s/%s/%d?%s",
		c.cfg.BaseURL, url.PathEscape(c.cfg.Project), c.cfg.Version, q.Encode())
}

func percent(v float64) int {
	return int(math.Round(v * 100))
}

// parsePredictions decodes a response body. A missing predictions list means
// nothing was detected.
func parsePredictions(data []byte) ([]ports.Prediction, error) {
	var res responseJSON
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	preds := make([]ports.Prediction, 0, len(res.Predictions))
	for i, p := range res.Predictions {
		if p.X == nil || p.Y == nil || p.Width == nil || p.Height == nil || p.Confidence == nil {
			return nil, fmt.Errorf("%w: prediction %d is missing geometry or confidence", ErrMalformed, i)
		}
		if p.Class == "" {
			return nil, fmt.Errorf("%w: prediction %d has no class", ErrMalformed, i)
		}
		preds = append(preds, ports.Prediction{
			X:          *p.X,
			Y:          *p.Y,
			Width:      *p.Width,
			Height:     *p.Height,
			Class:      p.Class,
			Confidence: *p.Confidence,
		})
	}
	return preds, nil
}

// Ensure Client implements ports.Predictor
var _ ports.Predictor = (*Client)(nil)
