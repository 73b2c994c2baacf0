package dispatch

import "github.com/kilianp07/powerplant/core/model"

// EffectiveUnit is a plant whose operating envelope has been scaled by the
// availability of its fuel. Plant keeps the nominal limits untouched.
type EffectiveUnit struct {
	Plant        model.Plant
	Min          float64
	Max          float64
	MarginalCost float64 // €/MWh delivered
}

// EffectiveEnvelope derives the operating envelope of p given its fuel.
// Intermittent units run at their available capacity or not at all, so their
// minimum is raised to the maximum.
func EffectiveEnvelope(p model.Plant, f model.Fuel) EffectiveUnit {
	u := EffectiveUnit{
		Plant:        p,
		Min:          p.PMin * f.Factor,
		Max:          p.PMax * f.Factor,
		MarginalCost: MarginalCost(p, f),
	}
	if p.FuelType.Intermittent() {
		u.Min = u.Max
	}
	return u
}

// EffectiveEnvelopes adjusts every plant of the problem, keeping input order.
func EffectiveEnvelopes(problem model.Problem) []EffectiveUnit {
	units := make([]EffectiveUnit, len(problem.Plants))
	for i, p := range problem.Plants {
		units[i] = EffectiveEnvelope(p, problem.Fuels[p.FuelType])
	}
	return units
}
