package mqtt

import (
	"fmt"
	"sync"
	"time"

	coremqtt "github.com/kilianp07/powerplant/core/mqtt"
)

// Client mirrors the core mqtt.Client interface.
type Client = coremqtt.Client

// MockPublisher records setpoints in memory. Plants listed in FailPlants
// fail to publish and plants listed in NoAck never acknowledge.
type MockPublisher struct {
	Setpoints  map[string]float64
	FailPlants map[string]bool
	NoAck      map[string]bool
	acks       map[string]bool
	mu         sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Setpoints:  make(map[string]float64),
		FailPlants: make(map[string]bool),
		NoAck:      make(map[string]bool),
		acks:       make(map[string]bool),
	}
}

// SendSetpoint records the setpoint or returns an error if configured to fail.
func (m *MockPublisher) SendSetpoint(plant string, powerMW float64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPlants[plant] {
		return "", fmt.Errorf("publish to %s failed", plant)
	}
	m.Setpoints[plant] = powerMW
	cmdID := "cmd-" + plant
	m.acks[cmdID] = !m.NoAck[plant]
	return cmdID, nil
}

// WaitForAck answers immediately from the recorded result. Missing acks
// report ErrAckTimeout without waiting.
func (m *MockPublisher) WaitForAck(commandID string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	ok, exists := m.acks[commandID]
	m.mu.Unlock()
	if !exists {
		return false, coremqtt.ErrUnknownCommand
	}
	if !ok {
		return false, coremqtt.ErrAckTimeout
	}
	return true, nil
}

// Sent returns a copy of the recorded setpoints.
func (m *MockPublisher) Sent() map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]float64, len(m.Setpoints))
	for k, v := range m.Setpoints {
		out[k] = v
	}
	return out
}
