package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the Prometheus metrics exported by the fixture daemon
type Registry struct {
	// Dataset metrics
	DatasetsTotal       *prometheus.CounterVec
	DatasetsInFlight    prometheus.Gauge
	GenerationDuration  prometheus.Histogram
	EventsGenerated     prometheus.Counter
	SessionsGenerated   prometheus.Counter
	SessionsTruncated   prometheus.Counter
	RecordWriteFailures *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initDatasetMetrics()
	r.initHTTPMetrics()
	return r
}

// PrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}

func (r *Registry) initDatasetMetrics() {
	r.DatasetsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "topogen_datasets_total",
			Help: "Datasets that reached a terminal status",
		},
		[]string{"status"}, // completed, failed, cancelled
	)

	r.DatasetsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "topogen_datasets_in_flight",
			Help: "Datasets currently being generated",
		},
	)

	r.GenerationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "topogen_generation_duration_seconds",
			Help:    "Wall time of one generation run",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	r.EventsGenerated = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "topogen_events_generated_total",
			Help: "Visit events emitted",
		},
	)

	r.SessionsGenerated = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "topogen_sessions_generated_total",
			Help: "Sessions walked",
		},
	)

	r.SessionsTruncated = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "topogen_sessions_truncated_total",
			Help: "Sessions that ended before reaching a database",
		},
	)

	r.RecordWriteFailures = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "topogen_record_write_failures_total",
			Help: "Records that could not be written, by sink",
		},
		[]string{"sink"},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "topogen_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "topogen_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
}

// RecordHTTPRequest records one served request
func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordDataset records a dataset reaching a terminal status
func (r *Registry) RecordDataset(status string, duration time.Duration, sessions, truncated, events int64) {
	r.DatasetsTotal.WithLabelValues(status).Inc()
	r.GenerationDuration.Observe(duration.Seconds())
	r.SessionsGenerated.Add(float64(sessions))
	r.SessionsTruncated.Add(float64(truncated))
	r.EventsGenerated.Add(float64(events))
}

// RecordWriteFailure counts a failed record write
func (r *Registry) RecordWriteFailure(sink string) {
	r.RecordWriteFailures.WithLabelValues(sink).Inc()
}
