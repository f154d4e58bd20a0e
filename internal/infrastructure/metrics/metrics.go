// Package metrics exposes Prometheus collectors for the cleaning pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "textclean"

// Cache request results.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics holds the collectors on a private registry so tests and multiple
// servers in one process do not collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	textsProcessed  *prometheus.CounterVec
	applied         *prometheus.CounterVec
	buildErrors     prometheus.Counter
	cacheRequests   *prometheus.CounterVec
	processDuration prometheus.Histogram
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		textsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "texts_processed_total",
				Help:      "Total number of texts run through a pipeline",
			},
			[]string{"source"},
		),
		applied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transformations_applied_total",
				Help:      "Total number of transformation applications",
			},
			[]string{"transformation"},
		),
		buildErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "build_errors_total",
				Help:      "Pipelines rejected because of an unknown transformation",
			},
		),
		cacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_requests_total",
				Help:      "Result cache lookups by outcome",
			},
			[]string{"result"},
		),
		processDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "process_duration_seconds",
				Help:      "Duration of a single clean request",
				Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 10),
			},
		),
	}

	m.registry.MustRegister(
		m.textsProcessed,
		m.applied,
		m.buildErrors,
		m.cacheRequests,
		m.processDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// TextsProcessed counts n texts cleaned from the given source (api, cli, job).
func (m *Metrics) TextsProcessed(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.textsProcessed.WithLabelValues(source).Add(float64(n))
}

// TransformationsApplied counts each step once per text.
func (m *Metrics) TransformationsApplied(names []string, texts int) {
	if m == nil || texts <= 0 {
		return
	}
	for _, name := range names {
		m.applied.WithLabelValues(name).Add(float64(texts))
	}
}

// BuildError counts a rejected pipeline.
func (m *Metrics) BuildError() {
	if m == nil {
		return
	}
	m.buildErrors.Inc()
}

// CacheRequest counts a result cache lookup.
func (m *Metrics) CacheRequest(hit bool) {
	if m == nil {
		return
	}
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	m.cacheRequests.WithLabelValues(result).Inc()
}

// ObserveDuration records how long a clean request took.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.processDuration.Observe(d.Seconds())
}
