package dispatch

import (
	"fmt"
	"time"
)

// Config defines solver and setpoint settings.
type Config struct {
	// MaxNodes bounds the commitment search; 0 means unbounded.
	MaxNodes int `json:"max_nodes"`
	// LowerBound enables the LP relaxation cost bound on each solve.
	LowerBound bool `json:"lower_bound"`
	// AckTimeoutSeconds is how long to wait for a plant to acknowledge a
	// setpoint.
	AckTimeoutSeconds int `json:"ack_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.AckTimeoutSeconds == 0 {
		c.AckTimeoutSeconds = int(DefaultAckTimeout / time.Second)
	}
}

// Validate checks numeric bounds.
func (c Config) Validate() error {
	if c.MaxNodes < 0 {
		return fmt.Errorf("max_nodes must not be negative")
	}
	if c.AckTimeoutSeconds < 0 {
		return fmt.Errorf("ack_timeout_seconds must not be negative")
	}
	return nil
}

// AckTimeout returns AckTimeoutSeconds as a duration.
func (c Config) AckTimeout() time.Duration {
	return time.Duration(c.AckTimeoutSeconds) * time.Second
}
