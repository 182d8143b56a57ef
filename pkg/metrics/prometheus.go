// Package metrics provides Prometheus metrics for the propcast service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the propcast service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline runs
	runsTotal       prometheus.Counter
	runFailures     *prometheus.CounterVec
	runDuration     prometheus.Histogram
	lookupMisses    prometheus.Counter
	slipAttempts    prometheus.Counter
	boardSize       prometheus.Gauge
	betsByCategory  *prometheus.GaugeVec
	bestProps       prometheus.Gauge
	slips           prometheus.Gauge
	poolSize        prometheus.Gauge
	lastRunUnixTime prometheus.Gauge

	// Refresh queue
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	refreshEnqueued  prometheus.Counter
	refreshRejected  *prometheus.CounterVec
	refreshDuplicate prometheus.Counter
	watchEvents      prometheus.Counter

	// Run store and ledger
	storeOps      *prometheus.CounterVec
	storeLatency  *prometheus.HistogramVec
	ledgerWrites  *prometheus.CounterVec
	ledgerLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec
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
		namespace:        "propcast",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.runsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Total number of completed pipeline runs",
	})

	m.runFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_failures_total",
		Help:      "Total number of pipeline runs aborted, by stage",
	}, []string{"stage"})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_milliseconds",
		Help:      "Duration of a pipeline run from load to publish",
		Buckets:   m.histogramBuckets,
	})

	m.lookupMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lookup_misses_total",
		Help:      "Rows skipped by the merge or left without matchup data",
	})

	m.slipAttempts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "slip_attempts_total",
		Help:      "Random slip draws, accepted or rejected",
	})

	m.boardSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_size",
		Help:      "Records on the latest board",
	})

	m.betsByCategory = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendations",
		Help:      "Non-fade recommendations on the latest board by category",
	}, []string{"category"})

	m.bestProps = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "best_props",
		Help:      "Best props selected by the latest run",
	})

	m.slips = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "slips",
		Help:      "Slips assembled by the latest run",
	})

	m.poolSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "slip_pool_size",
		Help:      "Eligible recommendations in the latest slip pool",
	})

	m.lastRunUnixTime = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_unix_seconds",
		Help:      "Unix time of the latest published run",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "queue_size",
		Help:      "Pending refresh requests",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "queue_capacity",
		Help:      "Maximum pending refresh requests",
	})

	m.refreshEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "enqueued_total",
		Help:      "Refresh requests accepted by the queue",
	})

	m.refreshRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "rejected_total",
		Help:      "Refresh requests the queue refused, by reason",
	}, []string{"reason"})

	m.refreshDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "duplicate_total",
		Help:      "Refreshes skipped because the data fingerprint was already published",
	})

	m.watchEvents = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "refresh",
		Name:      "watch_events_total",
		Help:      "Data directory change events seen by the watcher",
	})

	m.storeOps = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Run store operations by backend, operation and result",
	}, []string{"backend", "op", "result"})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "latency_milliseconds",
		Help:      "Run store latency by backend and operation",
		Buckets:   m.histogramBuckets,
	}, []string{"backend", "op"})

	m.ledgerWrites = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ledger",
		Name:      "writes_total",
		Help:      "Ledger writes by result",
	}, []string{"result"})

	m.ledgerLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "ledger",
		Name:      "write_latency_milliseconds",
		Help:      "Ledger transaction latency",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "errors_total",
		Help:      "Errors by component and type",
	}, []string{"component", "error_type"})
}

// RecordRun records a completed run and publishes its shape as gauges.
func RecordRun(durationMs float64, misses, attempts, board, bestProps, slips, pool int) {
	globalManager.runsTotal.Inc()
	globalManager.runDuration.Observe(durationMs)
	globalManager.lookupMisses.Add(float64(misses))
	globalManager.slipAttempts.Add(float64(attempts))
	globalManager.boardSize.Set(float64(board))
	globalManager.bestProps.Set(float64(bestProps))
	globalManager.slips.Set(float64(slips))
	globalManager.poolSize.Set(float64(pool))
}

// RecordRunFailure records a run aborted at stage (load, build, run, publish).
func RecordRunFailure(stage string) {
	globalManager.runFailures.WithLabelValues(stage).Inc()
}

// RecordSlipAttempts adds draws made outside a full run.
func RecordSlipAttempts(attempts int) {
	globalManager.slipAttempts.Add(float64(attempts))
}

// UpdateRecommendations sets the bet count for a category.
func UpdateRecommendations(category string, count int) {
	globalManager.betsByCategory.WithLabelValues(category).Set(float64(count))
}

// UpdateLastRunTime sets the publish time of the latest run.
func UpdateLastRunTime(unixSeconds int64) {
	globalManager.lastRunUnixTime.Set(float64(unixSeconds))
}

// UpdateQueueSize sets the number of pending refreshes.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the refresh queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordRefreshEnqueued counts an accepted refresh request.
func RecordRefreshEnqueued() {
	globalManager.refreshEnqueued.Inc()
}

// RecordRefreshRejected counts a refused refresh request.
func RecordRefreshRejected(reason string) {
	globalManager.refreshRejected.WithLabelValues(reason).Inc()
}

// RecordRefreshDuplicate counts a refresh skipped as already published.
func RecordRefreshDuplicate() {
	globalManager.refreshDuplicate.Inc()
}

// RecordWatchEvent counts a data directory change.
func RecordWatchEvent() {
	globalManager.watchEvents.Inc()
}

// RecordStoreOperation records one run store call.
func RecordStoreOperation(backend, op, result string, latencyMs float64) {
	globalManager.storeOps.WithLabelValues(backend, op, result).Inc()
	globalManager.storeLatency.WithLabelValues(backend, op).Observe(latencyMs)
}

// RecordLedgerWrite records one ledger transaction.
func RecordLedgerWrite(result string, latencyMs float64) {
	globalManager.ledgerWrites.WithLabelValues(result).Inc()
	globalManager.ledgerLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error for a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
