package metrics

import (
	"errors"
	"testing"
)

type recordSink struct {
	solves int
	points int
	acks   int
	err    error
}

func (r *recordSink) RecordSolve(SolveRecord) error {
	r.solves++
	return r.err
}

func (r *recordSink) RecordSetpoints(sp []PlantSetpoint) error {
	r.points += len(sp)
	return nil
}

func (r *recordSink) RecordSetpointAck(SetpointAckEvent) error {
	r.acks++
	return nil
}

// solveOnly implements none of the optional recorders.
type solveOnly struct{ n int }

func (s *solveOnly) RecordSolve(SolveRecord) error {
	s.n++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	s3 := &solveOnly{}
	m := NewMultiSink(s1, s2, s3)
	if err := m.RecordSolve(SolveRecord{Outcome: OutcomeOK}); err != nil {
		t.Fatalf("record solve: %v", err)
	}
	if err := m.RecordSetpoints([]PlantSetpoint{{Plant: "a"}, {Plant: "b"}}); err != nil {
		t.Fatalf("record setpoints: %v", err)
	}
	if err := m.RecordSetpointAck(SetpointAckEvent{Plant: "a"}); err != nil {
		t.Fatalf("record ack: %v", err)
	}
	if s1.solves != 1 || s2.solves != 1 || s3.n != 1 {
		t.Fatalf("solve not forwarded")
	}
	if s1.points != 2 || s2.acks != 1 {
		t.Fatalf("optional records not forwarded")
	}
}

func TestMultiSink_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	s1 := &recordSink{err: boom}
	s2 := &recordSink{}
	if err := NewMultiSink(s1, s2).RecordSolve(SolveRecord{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom got %v", err)
	}
	if s2.solves != 0 {
		t.Fatal("second sink should not be called after an error")
	}
}
