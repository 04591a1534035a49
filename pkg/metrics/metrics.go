// Package metrics exposes prometheus collectors for registry activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "staffdb"

// Metrics groups the registry collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Employees        prometheus.Gauge
	Operations       *prometheus.CounterVec
	SnapshotDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg when it is non-nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Employees: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "employees",
			Help:      "Number of employees held by the registry.",
		}),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Registry operations by name and outcome.",
		}, []string{"op", "result"}),
		SnapshotDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_duration_seconds",
			Help:      "Time spent saving or restoring snapshots.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.Employees, m.Operations, m.SnapshotDuration)
	}
	return m
}

// ObserveOp counts one operation, labelled ok or error.
func (m *Metrics) ObserveOp(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Operations.WithLabelValues(op, result).Inc()
}

// SetEmployees records the current registry size.
func (m *Metrics) SetEmployees(n int) {
	if m == nil {
		return
	}
	m.Employees.Set(float64(n))
}

// ObserveSnapshot records how long a save or restore took.
func (m *Metrics) ObserveSnapshot(op string, start time.Time) {
	if m == nil {
		return
	}
	m.SnapshotDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
