package dispatch

// FindCommitment searches for the first commitment, in depth-first
// commit-before-decommit order over the merit-ordered units, whose feasible
// load interval contains load.
func FindCommitment(load float64, units []EffectiveUnit) (Commitment, error) {
	c, _, err := findCommitment(load, units, 0)
	return c, err
}

// findCommitment is FindCommitment with a node budget. It also returns the
// number of search nodes visited. maxNodes <= 0 disables the budget.
func findCommitment(load float64, units []EffectiveUnit, maxNodes int) (Commitment, int, error) {
	s := &search{
		load:     load,
		units:    units,
		on:       make([]bool, len(units)),
		maxNodes: maxNodes,
	}
	if !s.visit(0, 0, 0) {
		if s.exceeded {
			return Commitment{}, s.nodes, ErrSearchBudgetExceeded
		}
		return Commitment{}, s.nodes, ErrNoFeasibleCommitment
	}
	return Commitment{On: s.on, SumMin: s.sumMin, SumMax: s.sumMax}, s.nodes, nil
}
