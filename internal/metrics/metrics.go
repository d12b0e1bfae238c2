// Package metrics defines the prometheus collectors shared by the task
// manager and the enumeration driver.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "burstcut"

// Cut outcomes used as the "outcome" label of CutsTotal.
const (
	OutcomeTrivial      = "trivial"
	OutcomeBounded      = "bounded"
	OutcomeSizeLimited  = "size_limited"
	OutcomeOversized    = "oversized"
	OutcomeSeedConflict = "seed_conflict"
)

// Executors used as the "by" label of TasksExecuted.
const (
	ByWorker = "worker"
	ByHelper = "helper"
)

// Metrics groups every collector of one run.
type Metrics struct {
	TasksSubmitted prometheus.Counter
	TasksExecuted  *prometheus.CounterVec
	QueueFull      prometheus.Counter
	CutsTotal      *prometheus.CounterVec
	CutSize        prometheus.Histogram
	ClaimConflicts prometheus.Counter
}

// New registers a fresh set of collectors with reg. Passing nil creates
// collectors that are not registered anywhere, which tests use to avoid
// duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TasksSubmitted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_submitted_total",
			Help:      "Tasks accepted by the task manager",
		}),
		TasksExecuted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_executed_total",
			Help:      "Tasks run, by worker goroutines or by helping submitters",
		}, []string{"by"}),
		QueueFull: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_full_total",
			Help:      "Submissions that found the queue at capacity",
		}),
		CutsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cuts_total",
			Help:      "Computed cuts by outcome",
		}, []string{"outcome"}),
		CutSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cut_size",
			Help:      "Number of leaves of non-empty cuts",
			Buckets:   prometheus.LinearBuckets(1, 1, 12),
		}),
		ClaimConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claim_conflicts_total",
			Help:      "Claims lost to another traversal",
		}),
	}
}
