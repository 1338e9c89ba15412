package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the optimizer's counters/histograms/gauges, registered
// in a registry of their own rather than the default global registry. No
// other package of this module records to it, and the CLI does not
// serve it.
type Metrics struct {
	Registry *prometheus.Registry

	EvaluationsTotal      prometheus.Counter
	FixedPointIterations  prometheus.Histogram
	ActiveServers         prometheus.Gauge
	GenerationDuration    prometheus.Histogram
}

// NewMetrics builds a fresh registry and registers every metric the
// optimizer core reports against.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		EvaluationsTotal: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Namespace: "dcvnfopt",
			Name:      "evaluations_total",
			Help:      "Total number of candidate solutions mapped and evaluated.",
		}),
		FixedPointIterations: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Namespace: "dcvnfopt",
			Name:      "fixed_point_iterations",
			Help:      "Number of fixed-point iterations the queueing evaluator took to converge.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}),
		ActiveServers: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Namespace: "dcvnfopt",
			Name:      "active_servers",
			Help:      "Number of servers with non-zero utilisation in the most recently evaluated solution.",
		}),
		GenerationDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Namespace: "dcvnfopt",
			Name:      "generation_duration_seconds",
			Help:      "Wall-clock duration of one NSGA-II generation or PPLS/D weight-vector hill-climb.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	return m
}
