package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	solveLatency    *prometheus.HistogramVec
	solvesTotal     *prometheus.CounterVec
	searchNodes     prometheus.Histogram
	ackRate         prometheus.Gauge
	setpointSuccess prometheus.Counter
	setpointFailure prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.HistogramVec, *prometheus.CounterVec, prometheus.Histogram, prometheus.Gauge, prometheus.Counter, prometheus.Counter) {
	lat := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "solve_latency_seconds",
			Help:    "Time spent computing a production plan",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"outcome"},
	)
	total := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solve_total",
			Help: "Number of production plan requests by outcome",
		},
		[]string{"outcome"},
	)
	nodes := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "solve_search_nodes",
			Help:    "Commitment search nodes visited per solve",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		},
	)
	ack := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "setpoint_ack_rate",
			Help: "Acknowledgment rate of the last setpoint round",
		},
	)
	suc := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "setpoint_publish_success_total",
			Help: "Number of successful setpoint publish operations",
		},
	)
	fail := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "setpoint_publish_failure_total",
			Help: "Number of failed setpoint publish operations",
		},
	)
	return lat, total, nodes, ack, suc, fail
}

func init() {
	solveLatency, solvesTotal, searchNodes, ackRate, setpointSuccess, setpointFailure = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers solver metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(solveLatency, solvesTotal, searchNodes, ackRate, setpointSuccess, setpointFailure)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	solveLatency, solvesTotal, searchNodes, ackRate, setpointSuccess, setpointFailure = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
