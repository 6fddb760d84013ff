package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes Prometheus collectors for the HTTP boundary and the
// upsert engine.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
	upsertsTotal    *prometheus.CounterVec
}

// NewMetrics registers collectors on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests processed",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "Requests that resolved to a domain error, by code",
		}, []string{"method", "path", "code"}),
		upsertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "profile_upserts_total",
			Help: "Profile upserts by collection and outcome",
		}, []string{"collection", "outcome"}),
	}

	registry.MustRegister(m.requestsTotal, m.requestDuration, m.errorsTotal, m.upsertsTotal)
	return m
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest observes one completed HTTP request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError counts a request that failed with a domain error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(method, path, code).Inc()
}

// RecordUpsert counts an upsert outcome: created, updated, or failed.
func (m *Metrics) RecordUpsert(collection, outcome string) {
	if m == nil {
		return
	}
	m.upsertsTotal.WithLabelValues(collection, outcome).Inc()
}
