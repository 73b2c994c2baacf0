package dispatch

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/powerplant/core/model"
)

// randomProblem builds a fleet whose fuels are fully available, the setting
// in which the allocation walk conserves the load exactly.
func randomProblem(r *rand.Rand) model.Problem {
	p := model.Problem{
		Load: 1 + r.Float64()*400,
		Fuels: map[model.FuelType]model.Fuel{
			model.FuelGas:      {Cost: 5 + r.Float64()*20, Factor: 1},
			model.FuelKerosine: {Cost: 30 + r.Float64()*30, Factor: 1},
			model.FuelWind:     {Cost: 0, Factor: 1},
		},
	}
	n := 1 + r.Intn(8)
	for i := 0; i < n; i++ {
		pl := model.Plant{Name: fmt.Sprintf("p%d", i), Efficiency: .3 + r.Float64()*.3}
		switch r.Intn(3) {
		case 0:
			pl.FuelType = model.FuelGas
		case 1:
			pl.FuelType = model.FuelKerosine
		default:
			pl.FuelType = model.FuelWind
			pl.Efficiency = 1
		}
		pl.PMin = math.Floor(r.Float64() * 50)
		pl.PMax = pl.PMin + math.Floor(r.Float64()*100)
		p.Plants = append(p.Plants, pl)
	}
	return p
}

// bruteForceFeasible enumerates every commitment.
func bruteForceFeasible(load float64, units []EffectiveUnit) bool {
	for mask := 0; mask < 1<<len(units); mask++ {
		var lo, hi float64
		for i, u := range units {
			if mask&(1<<i) != 0 {
				lo += u.Min
				hi += u.Max
			}
		}
		if lo <= load && load <= hi {
			return true
		}
	}
	return false
}

func TestSolveProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	feasible := 0
	for iter := 0; iter < 500; iter++ {
		p := randomProblem(r)
		sol, err := Solver{}.SolveDetailed(p)
		want := bruteForceFeasible(p.Load, EffectiveEnvelopes(p))
		if !want {
			require.Truef(t, errors.Is(err, ErrNoFeasibleCommitment), "iter %d: expected infeasible, got %v", iter, err)
			continue
		}
		require.NoErrorf(t, err, "iter %d: brute force found a commitment", iter)
		feasible++

		assert.InDeltaf(t, p.Load, sol.Total(), 1e-9, "iter %d: load conservation", iter)
		require.Len(t, sol.Configurations(), len(p.Plants))
		for i := 1; i < len(sol.Units); i++ {
			assert.LessOrEqualf(t, sol.Units[i-1].MarginalCost, sol.Units[i].MarginalCost, "iter %d: merit order", iter)
		}
		for i, u := range sol.Units {
			pw := sol.Powers[i]
			if !sol.Commitment.On[i] {
				assert.Zerof(t, pw, "iter %d: uncommitted %s must be off", iter, u.Plant.Name)
				continue
			}
			assert.GreaterOrEqualf(t, pw, 0.0, "iter %d: %s negative", iter, u.Plant.Name)
			assert.LessOrEqualf(t, pw, u.Max+1e-9, "iter %d: %s above max", iter, u.Plant.Name)
		}

		again, err := Solver{}.SolveDetailed(p)
		require.NoError(t, err)
		assert.Truef(t, reflect.DeepEqual(sol, again), "iter %d: solve is not deterministic", iter)
	}
	assert.Greater(t, feasible, 50, "generator should produce feasible problems")
}

// When every committed unit below the marginal one can be filled, the walk
// keeps each unit inside its envelope.
func TestSolveRespectsEnvelopes(t *testing.T) {
	p := model.Problem{
		Load:  260,
		Fuels: gasFuels(),
		Plants: []model.Plant{
			{Name: "a", FuelType: model.FuelGas, Efficiency: .6, PMin: 40, PMax: 100},
			{Name: "b", FuelType: model.FuelGas, Efficiency: .5, PMin: 40, PMax: 100},
			{Name: "c", FuelType: model.FuelKerosine, Efficiency: .4, PMin: 20, PMax: 100},
			{Name: "w", FuelType: model.FuelWind, Efficiency: 1, PMin: 30, PMax: 30},
		},
	}
	sol, err := Solver{}.SolveDetailed(p)
	require.NoError(t, err)
	for i, u := range sol.Units {
		if sol.Commitment.On[i] && sol.Powers[i] > 0 {
			assert.GreaterOrEqual(t, sol.Powers[i], u.Min, u.Plant.Name)
			assert.LessOrEqual(t, sol.Powers[i], u.Max, u.Plant.Name)
		}
	}
	assert.Equal(t, []model.PlantConfiguration{
		{Name: "w", Power: 30},
		{Name: "a", Power: 100},
		{Name: "b", Power: 100},
		{Name: "c", Power: 30},
	}, sol.Configurations())
}
