// Package metrics provides Prometheus metrics for the FRC scout service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Latency buckets in milliseconds. Upstream calls are bounded by a few seconds.
var defaultLatencyBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000} //nolint:gochecknoglobals // immutable default

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Conversation metrics
	asksTotal   *prometheus.CounterVec
	askDuration *prometheus.HistogramVec

	// Upstream provider metrics
	upstreamRequests  *prometheus.CounterVec
	upstreamLatency   *prometheus.HistogramVec
	degradedSections  *prometheus.CounterVec
	teamLookupsFailed prometheus.Counter

	// Store metrics
	storeOperations *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec
	noteTeams       prometheus.Gauge
	notesTotal      prometheus.Gauge
	favoritesTotal  prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "frcscout",
		subsystem:        "assistant",
		histogramBuckets: defaultLatencyBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	m.asksTotal = m.counterVec("asks_total",
		"Total number of questions handled, by classified intent", "intent")
	m.askDuration = m.histogramVec("ask_duration_milliseconds",
		"Time to produce a reply, by intent", "intent")

	m.upstreamRequests = m.counterVec("upstream_requests_total",
		"Upstream provider calls by provider, endpoint and outcome", "provider", "endpoint", "outcome")
	m.upstreamLatency = m.histogramVec("upstream_latency_milliseconds",
		"Upstream provider call latency", "provider")
	m.degradedSections = m.counterVec("degraded_sections_total",
		"Report sections replaced with a not-available sentence", "section")
	m.teamLookupsFailed = promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "team_not_found_total",
		Help:        "Lookups rejected by the team existence check",
		ConstLabels: m.constLabels,
	})

	m.storeOperations = m.counterVec("store_operations_total",
		"Snapshot store operations by store, operation and outcome", "store", "op", "outcome")
	m.storeLatency = m.histogramVec("store_latency_milliseconds",
		"Snapshot store operation latency", "store", "op")
	m.noteTeams = m.gauge("note_teams", "Number of teams with at least one note")
	m.notesTotal = m.gauge("notes", "Number of saved notes across all teams")
	m.favoritesTotal = m.gauge("favorites", "Number of favorite teams")

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total",
		"Errors by component and type", "component", "error_type")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"HTTP errors by endpoint, method and type", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Allocated heap memory in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_milliseconds",
		Help:        "Average GC pause time in milliseconds",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50},
		ConstLabels: m.constLabels,
	})
}

// RecordAsk records one handled question.
func RecordAsk(intent string, durationMs float64) {
	globalManager.asksTotal.WithLabelValues(intent).Inc()
	globalManager.askDuration.WithLabelValues(intent).Observe(durationMs)
}

// RecordUpstreamRequest records an upstream call outcome ("ok", "not_found", "error", "timeout").
func RecordUpstreamRequest(provider, endpoint, outcome string, durationMs float64) {
	globalManager.upstreamRequests.WithLabelValues(provider, endpoint, outcome).Inc()
	globalManager.upstreamLatency.WithLabelValues(provider).Observe(durationMs)
}

// RecordDegradedSection counts a report section that fell back to its not-available text.
func RecordDegradedSection(section string) {
	globalManager.degradedSections.WithLabelValues(section).Inc()
}

// RecordTeamNotFound counts a lookup stopped by the existence check.
func RecordTeamNotFound() {
	globalManager.teamLookupsFailed.Inc()
}

// RecordStoreOperation records a snapshot load or save.
func RecordStoreOperation(store, op, outcome string, durationMs float64) {
	globalManager.storeOperations.WithLabelValues(store, op, outcome).Inc()
	globalManager.storeLatency.WithLabelValues(store, op).Observe(durationMs)
}

// UpdateNoteCounts sets the note gauges.
func UpdateNoteCounts(teams, notes int) {
	globalManager.noteTeams.Set(float64(teams))
	globalManager.notesTotal.Set(float64(notes))
}

// UpdateFavoriteCount sets the favorites gauge.
func UpdateFavoriteCount(n int) {
	globalManager.favoritesTotal.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
