package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects request and packing counters on a private registry, so
// tests and embedded routers never clash over the global one.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	packingsTotal       *prometheus.CounterVec
	experimentRunsTotal prometheus.Counter
}

// NewMetrics creates a Metrics collector with its own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "binpack",
			Name:      "http_requests_total",
			Help:      "HTTP requests handled, by method, path, and status.",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "binpack",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		packingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "binpack",
			Name:      "packings_total",
			Help:      "Packings computed via the API, by algorithm.",
		}, []string{"algorithm"}),
		experimentRunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "binpack",
			Name:      "experiment_runs_total",
			Help:      "Experiments executed via the API.",
		}),
	}
	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.packingsTotal, m.experimentRunsTotal)
	return m
}

func (m *Metrics) observeRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) observePacking(algorithm string) {
	if m == nil {
		return
	}
	m.packingsTotal.WithLabelValues(algorithm).Inc()
}

func (m *Metrics) observeExperiment() {
	if m == nil {
		return
	}
	m.experimentRunsTotal.Inc()
}

// httpHandler exposes the registry in the Prometheus text format.
func (m *Metrics) httpHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
