// Package scenarios runs production plan scenarios described in YAML files
// through the dispatch manager.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/powerplant/api/solve"
)

// Expected describes the outcome a scenario must produce.
type Expected struct {
	// Plan maps plant names to their power. Plants left out must be at 0.
	Plan map[string]float64 `yaml:"plan"`
	// Order lists the plants in merit order, when the scenario pins it.
	Order []string `yaml:"order,omitempty"`
	// Outcome is "ok", "infeasible" or "invariant_violation".
	Outcome string `yaml:"outcome"`
	Acked   int    `yaml:"acked"`
}

// Scenario is one request payload plus the plant behavior to simulate.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Request     solve.Request `yaml:"request"`
	FailPlants  []string      `yaml:"fail_plants,omitempty"`
	NoAck       []string      `yaml:"no_ack,omitempty"`
	Expected    Expected      `yaml:"expected"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Expected.Outcome == "" {
		sc.Expected.Outcome = "ok"
	}
	return &sc, nil
}
