// Package metrics provides Prometheus metrics for the presale admin service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Derivation - how often and how fast tables are recomputed
	tableRecomputes       *prometheus.CounterVec
	tableRecomputeLatency *prometheus.HistogramVec
	mutations             *prometheus.CounterVec

	// Current parameters
	tierCount    *prometheus.GaugeVec
	tokenPrice   prometheus.Gauge
	bonusPercent *prometheus.GaugeVec

	// Persistence
	storeWrites       *prometheus.CounterVec
	storeReads        *prometheus.CounterVec
	storeWriteLatency prometheus.Histogram
	storeErrors       *prometheus.CounterVec

	// Auth
	signIns *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
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
		namespace:        "presale",
		subsystem:        "admin",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// RefreshInterval returns how often gauge metrics should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Enabled reports whether recording is active.
func (m *Manager) Enabled() bool { return m.enabled }

func (m *Manager) name(n string) string { return m.metricPrefix + n }

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.tableRecomputes = m.counterVec("table_recomputes_total", "Total number of derived table computations", "category")
	m.tableRecomputeLatency = m.histogramVec("table_recompute_latency_milliseconds", "Derived table computation latency in milliseconds", "category")
	m.mutations = m.counterVec("mutations_total", "Total number of base-input mutations by category and operation", "category", "operation")

	m.tierCount = m.gaugeVec("tier_count", "Current number of package tiers per category", "category")
	m.tokenPrice = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("tbc_price_usd"),
		Help:        "Current TBC token price in USD",
		ConstLabels: m.customLabels,
	})
	m.bonusPercent = m.gaugeVec("bonus_percent", "Current event bonus percent per category", "category")

	m.storeWrites = m.counterVec("store_writes_total", "Total number of persisted writes by key", "key")
	m.storeReads = m.counterVec("store_reads_total", "Total number of persisted reads by key", "key")
	m.storeWriteLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("store_write_latency_milliseconds"),
		Help:        "Persisted write latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	})
	m.storeErrors = m.counterVec("store_errors_total", "Total number of persistence failures by operation", "operation")

	m.signIns = m.counterVec("sign_ins_total", "Total number of sign-in attempts by result", "result")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Total number of errors by component", "component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Total number of errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint", "endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of failed operations in milliseconds", "component", "error_type")

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_bytes"),
		Help:        "Allocated heap memory in bytes",
		ConstLabels: m.customLabels,
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutines"),
		Help:        "Current number of goroutines",
		ConstLabels: m.customLabels,
	})
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_milliseconds"),
		Help:        "Average GC pause in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	})
}

// Derivation

// RecordTableRecompute records one derived table computation.
func RecordTableRecompute(category string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.tableRecomputes.WithLabelValues(category).Inc()
	globalManager.tableRecomputeLatency.WithLabelValues(category).Observe(latencyMs)
}

// RecordMutation records one base-input mutation.
func RecordMutation(category, operation string) {
	if !globalManager.enabled {
		return
	}
	globalManager.mutations.WithLabelValues(category, operation).Inc()
}

// UpdateTierCount sets the tier count of a category.
func UpdateTierCount(category string, count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.tierCount.WithLabelValues(category).Set(float64(count))
}

// UpdateTokenPrice sets the current token price.
func UpdateTokenPrice(price float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.tokenPrice.Set(price)
}

// UpdateBonusPercent sets the current bonus of a category.
func UpdateBonusPercent(category string, percent float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.bonusPercent.WithLabelValues(category).Set(percent)
}

// Persistence

// RecordStoreWrite records one persisted write.
func RecordStoreWrite(key string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeWrites.WithLabelValues(key).Inc()
	globalManager.storeWriteLatency.Observe(latencyMs)
}

// RecordStoreRead records one persisted read.
func RecordStoreRead(key string) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeReads.WithLabelValues(key).Inc()
}

// RecordStoreError records a persistence failure.
func RecordStoreError(operation string) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeErrors.WithLabelValues(operation).Inc()
	globalManager.errorRateByComponent.WithLabelValues("store", operation).Inc()
}

// RecordSignIn records a sign-in attempt: "success", "invalid" or "error".
func RecordSignIn(result string) {
	if !globalManager.enabled {
		return
	}
	globalManager.signIns.WithLabelValues(result).Inc()
}

// HTTP

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Errors

// RecordErrorByComponent records errors by component.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records errors by type and severity.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records errors by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records error latency.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System

// UpdateSystemMemoryUsage updates system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates system goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// RefreshInterval returns the refresh interval of the global manager.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
