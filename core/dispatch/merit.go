package dispatch

import (
	"sort"

	"github.com/kilianp07/powerplant/core/model"
)

// MarginalCost returns the fuel cost per MWh delivered by p. Availability does
// not change the price of a MWh, only how many can be produced.
func MarginalCost(p model.Plant, f model.Fuel) float64 {
	return f.Cost / p.Efficiency
}

// RankByMerit returns a copy of units sorted by ascending marginal cost.
// Units with equal cost keep their relative order.
func RankByMerit(units []EffectiveUnit) []EffectiveUnit {
	ranked := append([]EffectiveUnit(nil), units...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MarginalCost < ranked[j].MarginalCost
	})
	return ranked
}
