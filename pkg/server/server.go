// Package server exposes the detection pipeline over HTTP.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/ideamans/go-l10n"
	"github.com/julienschmidt/httprouter"
	"github.com/user/plantscan/pkg/orchestrator"
	"github.com/user/plantscan/pkg/ports"
)

//go:embed static
var staticFiles embed.FS

// Detector runs one detection request.
type Detector interface {
	Run(ctx context.Context, req orchestrator.Request) (orchestrator.RunResult, error)
}

// Options configures the HTTP server.
type Options struct {
	Listen          string
	RateLimit       int   // Detection requests per minute per client IP; 0 disables
	MaxUploadBytes  int64 // 0 means unlimited
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Metrics, when set, is served at /metrics.
	Metrics http.Handler
}

// DefaultOptions returns Options with default values.
func DefaultOptions() Options {
	return Options{
		Listen:          ":5000",
		RateLimit:       30,
		MaxUploadBytes:  512 << 20,
		ReadTimeout:     5 * time.Minute,
		WriteTimeout:    15 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Server serves the upload page and the detection API.
type Server struct {
	detector Detector
	store    ports.ArtifactStore
	opts     Options
	logger   ports.Logger

	handler http.Handler
	now     func() time.Time
}

// New creates a Server and registers its routes.
func New(detector Detector, store ports.ArtifactStore, opts Options, logger ports.Logger) *Server {
	s := &Server{
		detector: detector,
		store:    store,
		opts:     opts,
		logger:   logger.WithComponent("server"),
		now:      time.Now,
	}
	s.handler = withCORS(s.routes())
	return s
}

func (s *Server) routes() *httprouter.Router {
	router := httprouter.New()

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	router.GET("/", s.handleIndex)
	router.ServeFiles("/static/*filepath", http.FS(static))
	router.GET("/health", s.handleHealth)
	router.GET("/get-latest-video", s.handleLatestVideo)

	detect := http.Handler(http.HandlerFunc(s.handleDetect))
	if s.opts.RateLimit > 0 {
		detect = httprate.Limit(s.opts.RateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))(detect)
	}
	router.Handler(http.MethodPost, "/detect", detect)

	if s.opts.Metrics != nil {
		router.Handler(http.MethodGet, "/metrics", s.opts.Metrics)
	}

	router.GlobalOPTIONS = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return router
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Listen,
		Handler:      s.handler,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(l10n.F("Listening on %s", s.opts.Listen))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen %s: %w", s.opts.Listen, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info(l10n.T("Shutting down server"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}
