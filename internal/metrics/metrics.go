// Package metrics exposes Prometheus instrumentation for validation runs.
// Metrics implements pipeline.Observer for stage and run timings; clash and
// correction breakdowns are recorded from the finished report.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"girder/pkg/model"
	"girder/pkg/pipeline"
)

// Metrics holds the collectors for one registry. Construct with New and
// plumb it in as a pipeline observer.
type Metrics struct {
	registry *prometheus.Registry

	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	iterations    prometheus.Histogram
	stageDuration *prometheus.HistogramVec
	clashes       *prometheus.CounterVec
	corrections   *prometheus.CounterVec
}

// New creates a Metrics with its own registry, so tests and multiple servers
// never collide on collector registration.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "girder",
			Name:      "runs_total",
			Help:      "Validation runs by final status.",
		}, []string{"status"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "girder",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a full validation run.",
			Buckets:   prometheus.DefBuckets,
		}),
		iterations: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "girder",
			Name:      "run_iterations",
			Help:      "Correction iterations used per run.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "girder",
			Name:      "stage_duration_seconds",
			Help:      "Wall time per pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		clashes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "girder",
			Name:      "clashes_total",
			Help:      "Detected clashes by category and severity.",
		}, []string{"category", "severity"}),
		corrections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "girder",
			Name:      "corrections_total",
			Help:      "Correction attempts by outcome.",
		}, []string{"status"}),
	}
}

// OnEvent records stage and run timings from pipeline events.
func (m *Metrics) OnEvent(e pipeline.Event) {
	switch e.Type {
	case pipeline.EventStageEnd:
		m.stageDuration.WithLabelValues(e.Stage).Observe(e.Duration.Seconds())
	case pipeline.EventRunComplete:
		m.runs.WithLabelValues(string(e.Status)).Inc()
		m.runDuration.Observe(e.Duration.Seconds())
		m.iterations.Observe(float64(e.Iteration))
	}
}

// ObserveReport records the clash and correction breakdowns of a finished
// run.
func (m *Metrics) ObserveReport(r model.ValidationReport) {
	for _, c := range r.Clashes {
		m.clashes.WithLabelValues(string(c.Category), string(c.Severity)).Inc()
	}
	for _, c := range r.Corrections {
		m.corrections.WithLabelValues(string(c.Status)).Inc()
	}
}

// Registry returns the backing registry, for tests and custom handlers.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
