package metrics

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSolve forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordSolve(rec SolveRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordSolve(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordSetpoints forwards per-plant results when supported by the sink.
func (m *MultiSink) RecordSetpoints(sp []PlantSetpoint) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SetpointRecorder); ok {
			if err := rec.RecordSetpoints(sp); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSetpointAck forwards ack events when supported by the sink.
func (m *MultiSink) RecordSetpointAck(ev SetpointAckEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SetpointAckRecorder); ok {
			if err := rec.RecordSetpointAck(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
