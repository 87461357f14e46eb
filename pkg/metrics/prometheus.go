// Package metrics provides Prometheus metrics for the PMTwin matching service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the matching service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	scoreBuckets     []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Matching metrics
	matchQueries        *prometheus.CounterVec
	matchLatency        *prometheus.HistogramVec
	candidatesEvaluated *prometheus.HistogramVec
	matchResults        *prometheus.HistogramVec
	matchScores         *prometheus.HistogramVec
	failSoft            *prometheus.CounterVec

	// Data store metrics
	catalogEntities *prometheus.GaugeVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pmtwin",
		subsystem:        "matching",
		histogramBuckets: prometheus.DefBuckets,
		scoreBuckets:     []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of metric definitions
	auto := promauto.With(m.registry)

	m.matchQueries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "queries_total",
		Help:        "Total number of matching queries by operation",
		ConstLabels: m.constLabels,
	}, []string{"operation"})

	m.matchLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "latency_milliseconds",
		Help:        "Matching query latency in milliseconds, data fetch included",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"operation"})

	m.candidatesEvaluated = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "candidates_evaluated",
		Help:        "Number of candidates scored per query",
		Buckets:     prometheus.ExponentialBuckets(1, 4, 8),
		ConstLabels: m.constLabels,
	}, []string{"operation"})

	m.matchResults = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "results",
		Help:        "Number of matches returned per query",
		Buckets:     prometheus.ExponentialBuckets(1, 4, 8),
		ConstLabels: m.constLabels,
	}, []string{"operation"})

	m.matchScores = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "score",
		Help:        "Distribution of normalized match scores",
		Buckets:     m.scoreBuckets,
		ConstLabels: m.constLabels,
	}, []string{"operation"})

	m.failSoft = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "fail_soft_total",
		Help:        "Queries that degraded to an empty result",
		ConstLabels: m.constLabels,
	}, []string{"operation", "reason"})

	m.catalogEntities = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "store",
		Name:        "entities",
		Help:        "Number of entities held by the data store by kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "errors_total",
		Help:        "HTTP errors by endpoint, method and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "System memory usage in bytes",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})
}

// RecordMatchQuery counts a matching query and its latency.
func RecordMatchQuery(operation string, latencyMs float64) {
	globalManager.matchQueries.WithLabelValues(operation).Inc()
	globalManager.matchLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordCandidatesEvaluated records how many candidates a query scored.
func RecordCandidatesEvaluated(operation string, count int) {
	globalManager.candidatesEvaluated.WithLabelValues(operation).Observe(float64(count))
}

// RecordMatchResults records how many matches a query returned.
func RecordMatchResults(operation string, count int) {
	globalManager.matchResults.WithLabelValues(operation).Observe(float64(count))
}

// RecordMatchScore observes one normalized score in [0, 1].
func RecordMatchScore(operation string, score float64) {
	globalManager.matchScores.WithLabelValues(operation).Observe(score)
}

// RecordFailSoft counts a query that degraded to an empty result.
func RecordFailSoft(operation, reason string) {
	globalManager.failSoft.WithLabelValues(operation, reason).Inc()
}

// UpdateCatalogEntities sets the entity count for a kind.
func UpdateCatalogEntities(kind string, count int) {
	globalManager.catalogEntities.WithLabelValues(kind).Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error for a specific endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the current memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
