package dispatch

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMetricsRegistration(t *testing.T) {
	ResetMetrics(nil)
	t.Cleanup(func() { ResetMetrics(nil) })
	reg := prometheus.NewRegistry()
	MustRegisterMetrics(reg)
	// touch metrics so they are exported
	solveLatency.WithLabelValues("ok").Observe(0.01)
	solvesTotal.WithLabelValues("ok").Inc()
	searchNodes.Observe(12)
	ackRate.Set(1)
	setpointSuccess.Inc()
	setpointFailure.Inc()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := map[string]bool{}
	for _, mf := range mfs {
		names[*mf.Name] = true
	}
	expected := []string{
		"solve_latency_seconds",
		"solve_total",
		"solve_search_nodes",
		"setpoint_ack_rate",
		"setpoint_publish_success_total",
		"setpoint_publish_failure_total",
	}
	for _, n := range expected {
		if !names[n] {
			t.Errorf("metric %s not registered", n)
		}
	}
}
