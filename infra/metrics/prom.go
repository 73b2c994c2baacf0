package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/powerplant/core/metrics"
)

// PromSink records solve outcomes and per-plant setpoints in Prometheus
// collectors.
type PromSink struct {
	solves    *prometheus.CounterVec
	cost      prometheus.Gauge
	gap       prometheus.Gauge
	committed prometheus.Gauge
	power     *prometheus.GaugeVec
	acks      *prometheus.CounterVec
	ackDelay  *prometheus.HistogramVec
}

// NewPromSink registers the collectors on the default Prometheus registerer.
// The HTTP endpoint should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// register returns the collector already registered under the same
// descriptor when there is one.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.solves, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "production_plan_requests_total",
		Help: "Production plan requests by outcome",
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	if s.cost, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "production_plan_cost_euro_per_hour",
		Help: "Fuel cost of the last feasible production plan",
	})); err != nil {
		return nil, err
	}
	if s.gap, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "production_plan_cost_gap_euro_per_hour",
		Help: "Difference between the plan cost and its LP lower bound, negative when partial availability leaves load unserved",
	})); err != nil {
		return nil, err
	}
	if s.committed, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "production_plan_committed_plants",
		Help: "Number of plants running in the last feasible plan",
	})); err != nil {
		return nil, err
	}
	if s.power, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "plant_setpoint_mw",
		Help: "Last power assigned to each plant",
	}, []string{"plant", "fuel"})); err != nil {
		return nil, err
	}
	if s.acks, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plant_setpoint_acks_total",
		Help: "Setpoint acknowledgments by plant and result",
	}, []string{"plant", "acknowledged"})); err != nil {
		return nil, err
	}
	if s.ackDelay, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plant_setpoint_ack_latency_seconds",
		Help:    "Time between setpoint publication and acknowledgment",
		Buckets: prometheus.DefBuckets,
	}, []string{"plant"})); err != nil {
		return nil, err
	}
	return s, nil
}

// RecordSolve counts the request and updates cost gauges for feasible plans.
func (s *PromSink) RecordSolve(rec coremetrics.SolveRecord) error {
	s.solves.WithLabelValues(rec.Outcome).Inc()
	if rec.Outcome != coremetrics.OutcomeOK {
		return nil
	}
	s.cost.Set(rec.Cost)
	s.committed.Set(float64(rec.Committed))
	if rec.LowerBound > 0 {
		s.gap.Set(rec.Cost - rec.LowerBound)
	}
	return nil
}

// RecordSetpoints sets the per-plant power gauges.
func (s *PromSink) RecordSetpoints(sps []coremetrics.PlantSetpoint) error {
	for _, sp := range sps {
		s.power.WithLabelValues(sp.Plant, sp.FuelType).Set(sp.PowerMW)
	}
	return nil
}

// RecordSetpointAck counts the acknowledgment and observes its latency.
func (s *PromSink) RecordSetpointAck(ev coremetrics.SetpointAckEvent) error {
	s.acks.WithLabelValues(ev.Plant, strconv.FormatBool(ev.Acknowledged)).Inc()
	if ev.Acknowledged {
		s.ackDelay.WithLabelValues(ev.Plant).Observe(ev.Latency.Seconds())
	}
	return nil
}
