package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors recorded for every facade call.
type Metrics struct {
	// Operations counts calls by backend, operation and outcome. Outcome is
	// "ok" or the graph.Kind of the returned error.
	Operations *prometheus.CounterVec

	// Duration observes call latency in seconds.
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphfacade_operations_total",
				Help: "Total number of graph operations by outcome",
			},
			[]string{"backend", "operation", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "graphfacade_operation_duration_seconds",
				Help:    "Latency of graph operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend", "operation"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Operations, m.Duration)
	}
	return m
}
