package events

import "time"

// SolveEvent is published once per production plan request.
type SolveEvent struct {
	RequestID string
	Load      float64
	Plants    int
	Committed int
	Outcome   string
	Nodes     int
	Cost      float64
	Duration  time.Duration
	Err       error
}
