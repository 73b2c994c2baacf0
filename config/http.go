package config

import (
	"fmt"
	"time"
)

// HTTPConfig defines the production plan API listener.
type HTTPConfig struct {
	// Address is the listen address, e.g. ":8888".
	Address string `json:"address"`
	// Token protects every endpoint but /healthz when set.
	Token string `json:"token"`
	// ReadTimeoutSeconds bounds the time spent reading a request.
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *HTTPConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8888"
	}
	if c.ReadTimeoutSeconds == 0 {
		c.ReadTimeoutSeconds = 10
	}
}

// Validate checks mandatory fields.
func (c HTTPConfig) Validate() error {
	if c.ReadTimeoutSeconds < 0 {
		return fmt.Errorf("read_timeout_seconds must not be negative")
	}
	return nil
}

// ReadTimeout returns ReadTimeoutSeconds as a duration.
func (c HTTPConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}
