package scenarios

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/powerplant/core/dispatch"
	coremetrics "github.com/kilianp07/powerplant/core/metrics"
	"github.com/kilianp07/powerplant/infra/logger"
	"github.com/kilianp07/powerplant/infra/metrics"
	"github.com/kilianp07/powerplant/infra/mqtt"
	"github.com/kilianp07/powerplant/internal/eventbus"
)

const tolerance = 1e-6

// RunScenario solves the scenario request and checks plan, outcome and acks.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	reg := prometheus.NewRegistry()
	sinkIf, err := metrics.NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	sink, ok := sinkIf.(*metrics.PromSink)
	if !ok {
		t.Fatalf("expected *metrics.PromSink, got %T", sinkIf)
	}

	pub := mqtt.NewMockPublisher()
	for _, name := range sc.FailPlants {
		pub.FailPlants[name] = true
	}
	for _, name := range sc.NoAck {
		pub.NoAck[name] = true
	}

	bus := eventbus.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	collectorDone := metrics.StartEventCollector(ctx, bus, sink)

	mgr, err := dispatch.NewDispatchManager(dispatch.Solver{}, pub, 10*time.Millisecond, sink, bus, logger.NopLogger{})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}

	problem, err := sc.Request.ToProblem()
	if err != nil {
		t.Fatalf("scenario %s: invalid request: %v", sc.Name, err)
	}
	res, solveErr := mgr.Solve(ctx, problem)
	if err := mgr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	<-collectorDone

	if got := outcome(solveErr); got != sc.Expected.Outcome {
		t.Fatalf("scenario %s expected outcome %s, got %s (%v)", sc.Name, sc.Expected.Outcome, got, solveErr)
	}
	if v := counterSum(t, reg, "production_plan_requests_total", "outcome", sc.Expected.Outcome); v != 1 {
		t.Errorf("scenario %s: expected one %s request in metrics, got %v", sc.Name, sc.Expected.Outcome, v)
	}
	if solveErr != nil {
		return
	}

	for i, name := range sc.Expected.Order {
		if i >= len(res.Configurations) || res.Configurations[i].Name != name {
			t.Errorf("scenario %s: position %d expected %s in %v", sc.Name, i, name, res.Configurations)
		}
	}
	for _, c := range res.Configurations {
		want := sc.Expected.Plan[c.Name]
		if math.Abs(c.Power-want) > tolerance {
			t.Errorf("scenario %s: %s expected %v got %v", sc.Name, c.Name, want, c.Power)
		}
	}

	ackCount := 0
	for _, ok := range res.Acknowledged {
		if ok {
			ackCount++
		}
	}
	if ackCount != sc.Expected.Acked {
		t.Errorf("scenario %s expected %d acked, got %d", sc.Name, sc.Expected.Acked, ackCount)
	}
	if v := counterSum(t, reg, "plant_setpoint_acks_total", "acknowledged", "true"); int(v) != sc.Expected.Acked {
		t.Errorf("scenario %s: ack metrics report %v, expected %d", sc.Name, v, sc.Expected.Acked)
	}
}

// counterSum adds the counters of family name whose label matches value.
func counterSum(t *testing.T, reg prometheus.Gatherer, name, label, value string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var sum float64
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					sum += m.GetCounter().GetValue()
				}
			}
		}
	}
	return sum
}

func outcome(err error) string {
	switch {
	case err == nil:
		return coremetrics.OutcomeOK
	case errors.Is(err, dispatch.ErrAllocationInvariant):
		return coremetrics.OutcomeInvariant
	default:
		return coremetrics.OutcomeInfeasible
	}
}
