package htlc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects ledger statistics. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	ops       *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	contracts *prometheus.GaugeVec
}

// NewMetrics creates the ledger collectors and registers them.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hashlock",
			Subsystem: "htlc",
			Name:      "operations_total",
			Help:      "Number of ledger operations by kind and result.",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hashlock",
			Subsystem: "htlc",
			Name:      "operation_duration_seconds",
			Help:      "Duration of mutating ledger operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"op"}),
		contracts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hashlock",
			Subsystem: "htlc",
			Name:      "contracts",
			Help:      "Contracts moved into each state since the start of the process.",
		}, []string{"state"}),
	}
	reg.MustRegister(m.ops, m.duration, m.contracts)
	return m
}

func (m *Metrics) observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ops.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) transition(from, to State) {
	if m == nil {
		return
	}
	if from != StateInvalid {
		m.contracts.WithLabelValues(from.String()).Dec()
	}
	m.contracts.WithLabelValues(to.String()).Inc()
}
