package mqtt

import "time"

// Client sends power setpoints to plants and waits for their acknowledgment.
type Client interface {
	// SendSetpoint publishes the power a plant must produce and returns the
	// command identifier used to track the acknowledgment.
	SendSetpoint(plant string, powerMW float64) (commandID string, err error)

	// WaitForAck waits for an acknowledgment for the provided command
	// identifier or until the timeout expires.
	WaitForAck(commandID string, timeout time.Duration) (bool, error)
}
