// Package metrics provides Prometheus metrics for the technician
// performance service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  *prometheus.Registry

	// Pipeline metrics: report files moving through the poller and workers.
	filesProcessed prometheus.Counter
	fileErrors     prometheus.Counter
	runDuration    prometheus.Histogram
	lastRunUnix    prometheus.Gauge

	// Core computation metrics.
	failuresTotal     prometheus.Counter
	attemptsTotal     prometheus.Counter
	activeTechnicians prometheus.Gauge

	// Job queue metrics.
	queueSize     prometheus.Gauge
	queueCapacity prometheus.Gauge
	enqueueErrors prometheus.Counter

	// Worker metrics.
	workerCount prometheus.Gauge

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager on a custom registry so default Go collectors do not leak in.
var (
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry
	globalManager  *Manager                   //nolint:gochecknoglobals // singleton manager
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers all collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "techperf",
		subsystem: "pipeline",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initCollectors()
	return m
}

func (m *Manager) initCollectors() {
	factory := promauto.With(m.registry)

	m.filesProcessed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "files_processed_total",
		Help:      "Report files processed successfully.",
	})
	m.fileErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "file_errors_total",
		Help:      "Report files that failed to process and were skipped.",
	})
	m.runDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_seconds",
		Help:      "End-to-end duration of a single report computation.",
		Buckets:   m.buckets,
	})
	m.lastRunUnix = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the most recent completed run.",
	})

	m.failuresTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "failures_detected_total",
		Help:      "Flow-station failures detected across all runs.",
	})
	m.attemptsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repair_attempts_total",
		Help:      "Attributed repair attempts across all runs.",
	})
	m.activeTechnicians = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_technicians",
		Help:      "Distinct technicians in the most recent run.",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "job_queue_size",
		Help:      "File jobs currently queued.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "job_queue_capacity",
		Help:      "Configured capacity of the file job queue.",
	})
	m.enqueueErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "job_enqueue_errors_total",
		Help:      "File jobs rejected by the queue.",
	})

	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Workers in the processing pool.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration by endpoint, method and status code.",
		Buckets:   m.buckets,
	}, []string{"endpoint", "method", "status"})
}

// Package-level recording helpers delegating to the global manager.

// RecordFileProcessed increments the processed-files counter.
func RecordFileProcessed() { globalManager.filesProcessed.Inc() }

// RecordFileError increments the failed-files counter.
func RecordFileError() { globalManager.fileErrors.Inc() }

// RecordRunDuration observes the duration of one computation in seconds.
func RecordRunDuration(seconds float64) { globalManager.runDuration.Observe(seconds) }

// UpdateLastRun sets the timestamp of the most recent completed run.
func UpdateLastRun(unixSeconds float64) { globalManager.lastRunUnix.Set(unixSeconds) }

// RecordFailuresDetected adds detected flow failures from a run.
func RecordFailuresDetected(n int) { globalManager.failuresTotal.Add(float64(n)) }

// RecordRepairAttempts adds attributed repair attempts from a run.
func RecordRepairAttempts(n int) { globalManager.attemptsTotal.Add(float64(n)) }

// UpdateActiveTechnicians sets the active-technician gauge.
func UpdateActiveTechnicians(n int) { globalManager.activeTechnicians.Set(float64(n)) }

// UpdateQueueSize sets the current job queue depth.
func UpdateQueueSize(n int) { globalManager.queueSize.Set(float64(n)) }

// UpdateQueueCapacity sets the configured job queue capacity.
func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }

// RecordEnqueueError increments the queue rejection counter.
func RecordEnqueueError() { globalManager.enqueueErrors.Inc() }

// UpdateWorkerCount sets the worker pool size gauge.
func UpdateWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration in seconds.
func RecordHTTPRequestDuration(endpoint, method, status string, seconds float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(seconds)
}

// Registry exposes the custom registry, mainly for tests.
func Registry() *prometheus.Registry { return customRegistry }

// Handler returns the HTTP handler serving the custom registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}
