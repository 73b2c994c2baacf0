package events

import "time"

// SetpointEvent is published for each plant acknowledgment or error.
type SetpointEvent struct {
	RequestID    string
	Plant        string
	PowerMW      float64
	Acknowledged bool
	Err          error
	Latency      time.Duration
}
