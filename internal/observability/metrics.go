package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "axis",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "axis",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	syncCycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "axis",
			Subsystem: "sync",
			Name:      "cycles_total",
			Help:      "Completed calendar sync cycles.",
		},
	)
	syncCycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "axis",
			Subsystem: "sync",
			Name:      "cycle_duration_seconds",
			Help:      "Calendar sync cycle duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	syncOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "axis",
			Subsystem: "sync",
			Name:      "employees_total",
			Help:      "Per-employee reconciliation outcomes.",
		},
		[]string{"outcome"},
	)
)

// RegisterMetrics registers all collectors with the default registry. Safe to
// call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, syncCycles, syncCycleDuration, syncOutcomes)
	})
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, code).Inc()
	httpDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

// RecordCycle records one completed sync cycle.
func RecordCycle(duration time.Duration) {
	syncCycles.Inc()
	syncCycleDuration.Observe(duration.Seconds())
}

// RecordOutcome records one per-employee reconciliation outcome
// ("synced", "skipped" or "failed").
func RecordOutcome(outcome string) {
	syncOutcomes.WithLabelValues(outcome).Inc()
}
