package metrics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kilianp07/powerplant/core/events"
	coremetrics "github.com/kilianp07/powerplant/core/metrics"
	"github.com/kilianp07/powerplant/internal/eventbus"
)

type ackSink struct {
	coremetrics.NopSink
	mu   sync.Mutex
	acks []coremetrics.SetpointAckEvent
}

func (s *ackSink) RecordSetpointAck(ev coremetrics.SetpointAckEvent) error {
	s.mu.Lock()
	s.acks = append(s.acks, ev)
	s.mu.Unlock()
	return nil
}

func (s *ackSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.acks)
}

func TestEventCollectorForwardsSetpointEvents(t *testing.T) {
	bus := eventbus.New()
	sink := &ackSink{}
	ctx, cancel := context.WithCancel(context.Background())
	done := StartEventCollector(ctx, bus, sink)

	bus.Publish(events.SolveEvent{RequestID: "r1"})
	bus.Publish(events.SetpointEvent{RequestID: "r1", Plant: "gasfiredbig1", Acknowledged: true, Latency: time.Millisecond})
	bus.Publish(events.SetpointEvent{RequestID: "r1", Plant: "tj1", Err: errors.New("timeout")})

	deadline := time.Now().Add(time.Second)
	for sink.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if sink.count() != 2 {
		t.Fatalf("expected 2 acks, got %d", sink.count())
	}
	if sink.acks[0].Plant != "gasfiredbig1" || !sink.acks[0].Acknowledged {
		t.Errorf("unexpected first ack %+v", sink.acks[0])
	}
	if sink.acks[1].Error != "timeout" {
		t.Errorf("error not forwarded: %+v", sink.acks[1])
	}
}

func TestEventCollectorStopsOnBusClose(t *testing.T) {
	bus := eventbus.New()
	done := StartEventCollector(context.Background(), bus, &ackSink{})
	bus.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}
}

func TestEventCollectorWithoutRecorder(t *testing.T) {
	done := StartEventCollector(context.Background(), eventbus.New(), struct{ coremetrics.MetricsSink }{coremetrics.NopSink{}})
	select {
	case <-done:
	default:
		t.Fatal("collector should not start without an ack recorder")
	}
}
