package dispatch

// Commitment is the on/off decision for each unit of a merit-ordered list
// together with the aggregate envelope of the committed units.
type Commitment struct {
	On     []bool
	SumMin float64
	SumMax float64
}

// Covers reports whether load lies inside the feasible load interval.
func (c Commitment) Covers(load float64) bool {
	return c.SumMin <= load && load <= c.SumMax
}

// Committed returns the number of units switched on.
func (c Commitment) Committed() int {
	n := 0
	for _, on := range c.On {
		if on {
			n++
		}
	}
	return n
}

// search walks the commit/decommit tree depth first. The running sums travel
// by value down the recursion so backtracking never has to subtract.
type search struct {
	load     float64
	units    []EffectiveUnit
	on       []bool
	maxNodes int
	nodes    int
	exceeded bool
	sumMin   float64
	sumMax   float64
}

func (s *search) visit(i int, sumMin, sumMax float64) bool {
	s.nodes++
	if s.maxNodes > 0 && s.nodes > s.maxNodes {
		s.exceeded = true
		return false
	}
	if i == len(s.units) {
		if sumMin <= s.load && s.load <= sumMax {
			s.sumMin, s.sumMax = sumMin, sumMax
			return true
		}
		return false
	}
	// committing more units only raises the minimum
	if sumMin > s.load {
		return false
	}
	u := s.units[i]
	s.on[i] = true
	if s.visit(i+1, sumMin+u.Min, sumMax+u.Max) {
		return true
	}
	s.on[i] = false
	if s.exceeded {
		return false
	}
	return s.visit(i+1, sumMin, sumMax)
}
