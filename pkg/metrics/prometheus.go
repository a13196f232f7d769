// Package metrics provides Prometheus metrics for the presence service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Core computations
	evaluations      prometheus.Counter
	scans            prometheus.Counter
	scanDays         prometheus.Counter
	scanDuration     prometheus.Histogram
	crossings        *prometheus.CounterVec
	shortfalls       *prometheus.CounterVec
	scanChunks       prometheus.Counter
	totalTrips       prometheus.Gauge
	tripMutations    *prometheus.CounterVec
	idempotentReplay prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// Runtime
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "presence",
		subsystem:        "window",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.evaluations = m.counter("evaluations_total", "Total number of single-date window evaluations")
	m.scans = m.counter("scans_total", "Total number of trend scans")
	m.scanDays = m.counter("scan_days_total", "Total number of days evaluated by trend scans")
	m.scanChunks = m.counter("scan_chunks_total", "Total number of chunks evaluated by concurrent trend scans")
	m.scanDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "scan_duration_milliseconds",
		Help:        "Trend scan duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
	m.crossings = m.counterVec("crossings_total", "Threshold crossings found by trend scans", "direction")
	m.shortfalls = m.counterVec("shortfalls_total", "Evaluations below threshold by cause", "cause")
	m.totalTrips = m.gauge("trips", "Number of trips currently stored")
	m.tripMutations = m.counterVec("trip_mutations_total", "Trip collection writes by operation", "op")
	m.idempotentReplay = m.counter("idempotent_replays_total", "Trip creations answered from an idempotency key")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordEvaluation increments the evaluations counter.
func RecordEvaluation() { globalManager.evaluations.Inc() }

// RecordShortfall counts an evaluation that missed the threshold.
func RecordShortfall(cause string) { globalManager.shortfalls.WithLabelValues(cause).Inc() }

// RecordScan records one trend scan over days dates.
func RecordScan(days int, durationMs float64) {
	globalManager.scans.Inc()
	globalManager.scanDays.Add(float64(days))
	globalManager.scanDuration.Observe(durationMs)
}

// RecordScanChunk counts a chunk evaluated by a concurrent scan.
func RecordScanChunk() { globalManager.scanChunks.Inc() }

// RecordCrossing counts a threshold crossing by direction.
func RecordCrossing(direction string) { globalManager.crossings.WithLabelValues(direction).Inc() }

// UpdateTotalTrips sets the number of stored trips.
func UpdateTotalTrips(count int) { globalManager.totalTrips.Set(float64(count)) }

// RecordTripMutation counts a write to the trip collection.
func RecordTripMutation(op string) { globalManager.tripMutations.WithLabelValues(op).Inc() }

// RecordIdempotentReplay counts a creation answered from a known key.
func RecordIdempotentReplay() { globalManager.idempotentReplay.Inc() }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error for a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error for an HTTP endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom registry the service metrics live on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
