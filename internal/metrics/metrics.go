// Package metrics exposes Prometheus instrumentation for provisioning.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Clone outcome label values.
const (
	OutcomeCompleted  = "completed"
	OutcomeUnresolved = "unresolved"
	OutcomeFailed     = "failed"
)

var (
	// Clones counts clone attempts by outcome.
	Clones = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "craftctl_clones_total",
		Help: "Clone attempts by outcome (completed, unresolved, failed).",
	}, []string{"outcome"})

	// AuthRefreshes counts ticket acquisitions against the cluster.
	AuthRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "craftctl_auth_refresh_total",
		Help: "Number of API tickets obtained from the cluster.",
	})

	// LifecycleOps counts start/stop/delete calls by action and outcome.
	LifecycleOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "craftctl_lifecycle_ops_total",
		Help: "Lifecycle operations by action and outcome.",
	}, []string{"action", "outcome"})

	// TaskPolls counts task status polls against the cluster.
	TaskPolls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "craftctl_task_polls_total",
		Help: "Number of task status polls issued while awaiting tasks.",
	})

	// TaskDuration observes how long clone tasks take to settle.
	TaskDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "craftctl_task_duration_seconds",
		Help:    "Wall-clock duration of awaited cluster tasks.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})
)
