package main

import (
	"fmt"
	"strings"
	"time"
)

// Config holds parameters for the plant simulator.
type Config struct {
	Broker        string
	Username      string
	Password      string
	Plants        []string
	SetpointTopic string
	AckLatency    time.Duration
	DropRate      float64
	InfluxURL     string
	InfluxToken   string
	InfluxOrg     string
	InfluxBucket  string
}

// Validate checks the simulator parameters.
func (c *Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("broker is required")
	}
	if len(c.Plants) == 0 {
		return fmt.Errorf("at least one plant is required")
	}
	if c.DropRate < 0 || c.DropRate > 1 {
		return fmt.Errorf("drop rate %.2f outside [0,1]", c.DropRate)
	}
	if c.AckLatency < 0 {
		return fmt.Errorf("ack latency must not be negative")
	}
	if strings.Count(c.SetpointTopic, "%s") != 1 {
		return fmt.Errorf("setpoint topic %q must contain exactly one %%s", c.SetpointTopic)
	}
	return nil
}

// splitPlants parses a comma separated plant list.
func splitPlants(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
