package dispatch

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Cost returns the hourly fuel cost of running units at powers.
func Cost(units []EffectiveUnit, powers []float64) float64 {
	if len(units) != len(powers) {
		return 0
	}
	costs := make([]float64, len(units))
	for i, u := range units {
		costs[i] = u.MarginalCost
	}
	return floats.Dot(costs, powers)
}

// ErrNoUnits is returned when a lower bound is requested for an empty fleet.
var ErrNoUnits = errors.New("no units")

// solveRelaxation runs the simplex algorithm on the continuous relaxation:
// minimise the fuel cost subject to 0 <= p_i <= max_i and sum(p) == load.
// Minimum outputs and on/off decisions are ignored.
func solveRelaxation(costs, caps []float64, load float64) (float64, error) {
	n := len(caps)
	g := mat.NewDense(2*n, n, nil)
	h := make([]float64, 2*n)
	for i, c := range caps {
		g.Set(i, i, 1)
		h[i] = c
		g.Set(n+i, i, -1)
	}
	a := mat.NewDense(1, n, nil)
	for i := range caps {
		a.Set(0, i, 1)
	}
	cStd, aStd, bStd := lp.Convert(costs, g, h, a, []float64{load})
	opt, _, err := lp.Simplex(cStd, aStd, bStd, 1e-7, nil)
	return opt, err
}

// relaxationSolve can be replaced in tests to simulate solver failures.
var relaxationSolve = solveRelaxation

// CostLowerBound returns the cost of the continuous relaxation of the
// dispatch problem. No plan that serves the whole load can be cheaper. When a
// fuel is only partly available the allocator under-delivers, and the plan
// cost may fall below this bound.
func CostLowerBound(load float64, units []EffectiveUnit) (float64, error) {
	if len(units) == 0 {
		return 0, ErrNoUnits
	}
	costs := make([]float64, len(units))
	caps := make([]float64, len(units))
	for i, u := range units {
		costs[i] = u.MarginalCost
		caps[i] = u.Max
	}
	if floats.Sum(caps) < load {
		return 0, ErrNoFeasibleCommitment
	}
	return relaxationSolve(costs, caps, load)
}
