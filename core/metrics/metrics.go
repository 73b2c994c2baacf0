package metrics

import (
	"time"
)

// Solve outcomes used as metric labels.
const (
	OutcomeOK         = "ok"
	OutcomeInfeasible = "infeasible"
	OutcomeInvariant  = "invariant_violation"
)

// SolveRecord summarises one production plan request.
type SolveRecord struct {
	RequestID  string
	Load       float64
	Outcome    string
	Plants     int
	Committed  int
	Nodes      int
	Cost       float64
	LowerBound float64
	Duration   time.Duration
	Time       time.Time
}

// MetricsSink records solve outcomes for observability purposes.
type MetricsSink interface {
	RecordSolve(rec SolveRecord) error
}

// PlantSetpoint is the power assigned to one plant by a solve.
type PlantSetpoint struct {
	RequestID    string
	Plant        string
	FuelType     string
	PowerMW      float64
	MaxMW        float64
	MarginalCost float64
	Committed    bool
	Time         time.Time
}

// SetpointRecorder is implemented by sinks able to record per-plant results.
type SetpointRecorder interface {
	RecordSetpoints(sp []PlantSetpoint) error
}

// SetpointAckEvent captures the acknowledgment of a setpoint by a plant.
type SetpointAckEvent struct {
	RequestID    string
	Plant        string
	Acknowledged bool
	Latency      time.Duration
	Error        string
	Time         time.Time
}

// SetpointAckRecorder records acknowledgment events.
type SetpointAckRecorder interface {
	RecordSetpointAck(ev SetpointAckEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordSolve(SolveRecord) error            { return nil }
func (NopSink) RecordSetpoints([]PlantSetpoint) error    { return nil }
func (NopSink) RecordSetpointAck(SetpointAckEvent) error { return nil }
