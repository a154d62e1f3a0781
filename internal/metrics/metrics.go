// Package metrics exports summarization metrics in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gistbot"

//nolint:gochecknoglobals // Bucket table meant to be immutable.
var latencyBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60}

// Metrics is safe to use as a nil pointer, in which case nothing is recorded.
type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	retries     *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "summarizer",
			Name:      "requests_total",
			Help:      "Total number of summarization requests",
		},
		[]string{"provider", "status"},
	)

	m.retries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "summarizer",
			Name:      "retries_total",
			Help:      "Total number of retries after transient failures",
		},
		[]string{"provider"},
	)

	m.latency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "summarizer",
			Name:      "latency_seconds",
			Help:      "Summarization latency in seconds, retries included",
			Buckets:   latencyBuckets,
		},
		[]string{"provider"},
	)

	m.cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of summary cache hits",
		},
	)

	m.cacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of summary cache misses",
		},
	)

	m.registry.MustRegister(m.requests, m.retries, m.latency, m.cacheHits, m.cacheMisses)

	return m
}

func (m *Metrics) ObserveRequest(provider string, status string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.requests.WithLabelValues(provider, status).Inc()
	m.latency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func (m *Metrics) IncRetry(provider string) {
	if m == nil {
		return
	}

	m.retries.WithLabelValues(provider).Inc()
}

func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}

	m.cacheHits.Inc()
}

func (m *Metrics) IncCacheMiss() {
	if m == nil {
		return
	}

	m.cacheMisses.Inc()
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
