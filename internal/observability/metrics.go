package observability

import (
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/logger"
)

const metricsNamespace = "edu_platforma"

// Metrics holds every Prometheus collector the service exports. All methods
// are safe on a nil receiver so callers never need to check Enabled.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	aggregateOps       *prometheus.CounterVec
	aggregateLatency   *prometheus.HistogramVec
	aggregateConflicts *prometheus.CounterVec
	aggregateRetries   *prometheus.CounterVec

	snapshotsCreated *prometheus.CounterVec
	snapshotsPruned  *prometheus.CounterVec
	rollbacks        *prometheus.CounterVec

	sweepRuns     *prometheus.CounterVec
	sweepDuration prometheus.Histogram
}

var (
	metricsOnce sync.Once
	current     *Metrics
)

// Enabled reports whether METRICS_ENABLED allows the exporter. Default on.
func Enabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("METRICS_ENABLED"))) {
	case "0", "false", "no", "off":
		return false
	default:
		return true
	}
}

// Current returns the process-wide metrics, or nil before Init.
func Current() *Metrics {
	return current
}

// Init builds the process-wide metrics once. It returns nil when disabled.
func Init(log *logger.Logger) *Metrics {
	metricsOnce.Do(func() {
		if !Enabled() {
			if log != nil {
				log.Info("metrics disabled")
			}
			return
		}
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		current = NewMetrics(reg)
		if log != nil {
			log.Info("metrics initialized", "namespace", metricsNamespace)
		}
	})
	return current
}

// NewMetrics registers a fresh set of collectors on reg. Tests pass their own
// registry to stay isolated from the process-wide one.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,

		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "inflight_requests",
			Help:      "HTTP requests currently being served.",
		}),

		aggregateOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "aggregate",
			Name:      "operations_total",
			Help:      "Aggregate write operations by name and outcome.",
		}, []string{"operation", "status"}),
		aggregateLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "aggregate",
			Name:      "operation_duration_seconds",
			Help:      "Aggregate write latency including retries.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
		aggregateConflicts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "aggregate",
			Name:      "conflicts_total",
			Help:      "Aggregate writes that ended in a conflict.",
		}, []string{"operation"}),
		aggregateRetries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "aggregate",
			Name:      "retries_total",
			Help:      "Aggregate write attempts retried after a transient failure.",
		}, []string{"operation"}),

		snapshotsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "versioning",
			Name:      "snapshots_created_total",
			Help:      "Content snapshots written by entity type.",
		}, []string{"entity_type"}),
		snapshotsPruned: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "versioning",
			Name:      "snapshots_pruned_total",
			Help:      "Content snapshots removed by retention cleanup.",
		}, []string{"entity_type"}),
		rollbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "versioning",
			Name:      "rollbacks_total",
			Help:      "Rollbacks by entity type and outcome.",
		}, []string{"entity_type", "status"}),

		sweepRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "retention",
			Name:      "sweeps_total",
			Help:      "Retention sweeps by outcome.",
		}, []string{"status"}),
		sweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "retention",
			Name:      "sweep_duration_seconds",
			Help:      "Wall time of one retention sweep across all entity types.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(operation, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateOps.WithLabelValues(operation, status).Inc()
	m.aggregateLatency.WithLabelValues(operation).Observe(dur.Seconds())
}

func (m *Metrics) IncAggregateConflict(operation string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.WithLabelValues(operation).Inc()
}

func (m *Metrics) IncAggregateRetry(operation string) {
	if m == nil {
		return
	}
	m.aggregateRetries.WithLabelValues(operation).Inc()
}

func (m *Metrics) IncSnapshotCreated(entityType string) {
	if m == nil {
		return
	}
	m.snapshotsCreated.WithLabelValues(entityType).Inc()
}

func (m *Metrics) AddSnapshotsPruned(entityType string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.snapshotsPruned.WithLabelValues(entityType).Add(float64(n))
}

func (m *Metrics) ObserveRollback(entityType, status string) {
	if m == nil {
		return
	}
	m.rollbacks.WithLabelValues(entityType, status).Inc()
}

func (m *Metrics) ObserveSweep(status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.sweepRuns.WithLabelValues(status).Inc()
	m.sweepDuration.Observe(dur.Seconds())
}
