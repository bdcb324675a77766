// Package metrics defines the prometheus collectors a Runtime publishes
// about its own scheduling activity: task throughput and per-worker queue
// depth. Collectors are constructed per Runtime instance, each against its
// own private registry, rather than registered against the global default
// registry: a single process may embed more than one Runtime (notably in
// tests), and registering the same collector twice against
// prometheus.DefaultRegisterer panics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the counters and gauges a Runtime publishes about its own
// scheduling activity.
type Metrics struct {
	Registry *prometheus.Registry

	// TasksSubmitted counts every task accepted by Submit.
	TasksSubmitted prometheus.Counter
	// TasksCompleted counts every task whose kernel has returned.
	TasksCompleted prometheus.Counter
	// TasksOutstanding is the number of tasks submitted but not yet
	// terminated, mirroring the termination barrier's counter.
	TasksOutstanding prometheus.Gauge
	// WorkerQueueDepth is the number of pending tasks in a given worker's
	// queue, labeled by worker ID.
	WorkerQueueDepth *prometheus.GaugeVec
}

// New builds a fresh Metrics with its own private registry under the given
// namespace.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		TasksSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_submitted_total",
			Help:      "Total number of tasks accepted by Submit.",
		}),
		TasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_completed_total",
			Help:      "Total number of tasks whose kernel has returned.",
		}),
		TasksOutstanding: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tasks_outstanding",
			Help:      "Number of tasks submitted but not yet terminated.",
		}),
		WorkerQueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "worker_queue_depth",
			Help:      "Number of pending tasks in a worker's queue.",
		}, []string{"worker"}),
	}

	reg.MustRegister(m.TasksSubmitted, m.TasksCompleted, m.TasksOutstanding, m.WorkerQueueDepth)

	return m
}
