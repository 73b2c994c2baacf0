package dispatch

import (
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/powerplant/core/model"
)

// Solver computes production plans. The zero value has no search budget.
// A Solver holds no mutable state and can be shared between goroutines.
type Solver struct {
	// MaxNodes bounds the number of commitment search nodes. Zero disables
	// the bound.
	MaxNodes int
}

// NewSolver returns a Solver configured from cfg.
func NewSolver(cfg Config) Solver {
	return Solver{MaxNodes: cfg.MaxNodes}
}

// Solution is the full outcome of a solve, in merit order.
type Solution struct {
	Units      []EffectiveUnit
	Commitment Commitment
	Powers     []float64
	Nodes      int
}

// Configurations zips units and powers into the response form.
func (s Solution) Configurations() []model.PlantConfiguration {
	out := make([]model.PlantConfiguration, len(s.Units))
	for i, u := range s.Units {
		out[i] = model.PlantConfiguration{Name: u.Plant.Name, Power: s.Powers[i]}
	}
	return out
}

// Cost is the fuel cost of the allocation in €/h.
func (s Solution) Cost() float64 {
	return Cost(s.Units, s.Powers)
}

// Total is the power delivered by the allocation.
func (s Solution) Total() float64 {
	return floats.Sum(s.Powers)
}

// Solve returns one configuration per plant of the problem, ordered by merit.
// It fails with ErrNoFeasibleCommitment when the load cannot be met.
func (s Solver) Solve(problem model.Problem) ([]model.PlantConfiguration, error) {
	sol, err := s.SolveDetailed(problem)
	if err != nil {
		return nil, err
	}
	return sol.Configurations(), nil
}

// SolveDetailed is Solve returning the intermediate search results.
func (s Solver) SolveDetailed(problem model.Problem) (Solution, error) {
	units := RankByMerit(EffectiveEnvelopes(problem))
	c, nodes, err := findCommitment(problem.Load, units, s.MaxNodes)
	if err != nil {
		return Solution{Units: units, Nodes: nodes}, err
	}
	powers, err := AllocatePower(problem.Load, units, c)
	if err != nil {
		return Solution{Units: units, Commitment: c, Nodes: nodes}, err
	}
	return Solution{Units: units, Commitment: c, Powers: powers, Nodes: nodes}, nil
}

// Solve runs a Solver without search budget.
func Solve(problem model.Problem) ([]model.PlantConfiguration, error) {
	return Solver{}.Solve(problem)
}
