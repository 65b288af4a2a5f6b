package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels.
const (
	opInsert  = "insert"
	opUpdate  = "update"
	opFindOne = "find_one"
	opFindAll = "find_all"
	opCount   = "count"
)

// Metrics counts store operations and their latency per table.
// A nil *Metrics records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// Panics if registration fails, like prometheus.MustRegister.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "peerexam",
				Subsystem: "store",
				Name:      "operations_total",
				Help:      "Store operations by table, operation and result.",
			},
			[]string{"table", "op", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "peerexam",
				Subsystem: "store",
				Name:      "operation_duration_seconds",
				Help:      "Store operation latency by table and operation.",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"table", "op"},
		),
	}
	reg.MustRegister(m.operations, m.duration)
	return m
}

// observe is deferred by every operation; errp points at its named error.
func (m *Metrics) observe(table, op string, start time.Time, errp *error) {
	if m == nil {
		return
	}
	result := "ok"
	if errp != nil && *errp != nil {
		result = "error"
	}
	m.operations.WithLabelValues(table, op, result).Inc()
	m.duration.WithLabelValues(table, op).Observe(time.Since(start).Seconds())
}
