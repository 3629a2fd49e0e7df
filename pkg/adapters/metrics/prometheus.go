// Package metrics exports pipeline counters to Prometheus.
package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/plantscan/pkg/ports"
)

// OtherLabel is the detections label for classes outside the known set.
const OtherLabel = "other"

// Prometheus implements ports.Metrics on its own registry.
type Prometheus struct {
	registry *prometheus.Registry
	labels   map[string]bool

	framesWritten prometheus.Counter
	framesSampled prometheus.Counter
	uniqueFrames  prometheus.Counter
	detections    *prometheus.CounterVec
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
}

// NewPrometheus registers the plantscan collectors, plus Go runtime and
// process collectors, on a fresh registry. Detections are counted under
// their lowercased class when it is one of labels, and as OtherLabel
// otherwise, so model output cannot grow the series count.
func NewPrometheus(labels ...string) *Prometheus {
	known := make(map[string]bool, len(labels))
	for _, l := range labels {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			known[l] = true
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		labels:   known,
		framesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "plantscan_frames_written_total",
			Help: "Total number of frames written to processed videos",
		}),
		framesSampled: factory.NewCounter(prometheus.CounterOpts{
			Name: "plantscan_frames_sampled_total",
			Help: "Total number of frames submitted for inference",
		}),
		uniqueFrames: factory.NewCounter(prometheus.CounterOpts{
			Name: "plantscan_unique_frames_total",
			Help: "Total number of sampled frames with a fingerprint new to their run",
		}),
		detections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "plantscan_detections_total",
			Help: "Total number of detections, by disease label",
		}, []string{"label"}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "plantscan_runs_total",
			Help: "Total number of detection runs, by outcome",
		}, []string{"outcome"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "plantscan_run_duration_seconds",
			Help:    "Duration of detection runs",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
	}
}

func (p *Prometheus) FrameWritten() { p.framesWritten.Inc() }
func (p *Prometheus) FrameSampled() { p.framesSampled.Inc() }
func (p *Prometheus) UniqueFrame()  { p.uniqueFrames.Inc() }

func (p *Prometheus) Detection(label string) {
	label = strings.ToLower(strings.TrimSpace(label))
	if !p.labels[label] {
		label = OtherLabel
	}
	p.detections.WithLabelValues(label).Inc()
}

func (p *Prometheus) RunFinished(outcome string, d time.Duration) {
	p.runs.WithLabelValues(outcome).Inc()
	p.runDuration.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Nop discards all metrics.
type Nop struct{}

func (Nop) FrameWritten()                     {}
func (Nop) FrameSampled()                     {}
func (Nop) UniqueFrame()                      {}
func (Nop) Detection(string)                  {}
func (Nop) RunFinished(string, time.Duration) {}

var (
	_ ports.Metrics = (*Prometheus)(nil)
	_ ports.Metrics = Nop{}
)
