package logging

import (
	"context"
	"time"

	"github.com/kilianp07/powerplant/core/model"
)

// LogRecord captures one production plan request and its outcome.
type LogRecord struct {
	Timestamp      time.Time                  `json:"timestamp"`
	RequestID      string                     `json:"request_id"`
	Load           float64                    `json:"load"`
	Plants         []string                   `json:"plants"`
	Outcome        string                     `json:"outcome"`
	Error          string                     `json:"error,omitempty"`
	Configurations []model.PlantConfiguration `json:"configurations,omitempty"`
	Cost           float64                    `json:"cost"`
	LowerBound     float64                    `json:"lower_bound,omitempty"`
	Nodes          int                        `json:"nodes"`
}

// LogQuery defines filters for retrieving records. Zero fields match all.
type LogQuery struct {
	Start   time.Time
	End     time.Time
	Plant   string
	Outcome string
}

// Matches reports whether r passes every filter of q.
func (q LogQuery) Matches(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Outcome != "" && r.Outcome != q.Outcome {
		return false
	}
	if q.Plant == "" {
		return true
	}
	for _, name := range r.Plants {
		if name == q.Plant {
			return true
		}
	}
	return false
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}
