package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/powerplant/core/events"
	coremetrics "github.com/kilianp07/powerplant/core/metrics"
	"github.com/kilianp07/powerplant/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and forwards setpoint
// acknowledgments to sinks implementing SetpointAckRecorder. It stops when
// the context is canceled or the bus is closed. The returned channel is
// closed once the collector has exited.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	rec, ok := sink.(coremetrics.SetpointAckRecorder)
	if bus == nil || !ok {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				e, isSetpoint := ev.(events.SetpointEvent)
				if !isSetpoint {
					continue
				}
				ack := coremetrics.SetpointAckEvent{
					RequestID:    e.RequestID,
					Plant:        e.Plant,
					Acknowledged: e.Acknowledged,
					Latency:      e.Latency,
					Time:         time.Now(),
				}
				if e.Err != nil {
					ack.Error = e.Err.Error()
				}
				_ = rec.RecordSetpointAck(ack)
			}
		}
	}()
	return done
}
