package config

import (
	"fmt"
)

// Solve log backends.
const (
	BackendNone          = "none"
	BackendJSONL         = "jsonl"
	BackendJSONLRotating = "jsonl_rotating"
	BackendSQLite        = "sqlite"
)

// LoggingConfig defines settings for solve log storage and rotation.
type LoggingConfig struct {
	// Backend selects the log store type: "jsonl", "jsonl_rotating",
	// "sqlite" or "none".
	Backend string `json:"backend"`
	// Path is the file location of the log store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendJSONL
	}
	if c.Path == "" {
		switch c.Backend {
		case BackendSQLite:
			c.Path = "solves.db"
		default:
			c.Path = "solves.jsonl"
		}
	}
	if c.Backend == BackendJSONLRotating && c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	switch c.Backend {
	case BackendNone, BackendJSONL, BackendJSONLRotating, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Backend != BackendNone && c.Path == "" {
		return fmt.Errorf("path is required")
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("rotation settings must not be negative")
	}
	return nil
}
