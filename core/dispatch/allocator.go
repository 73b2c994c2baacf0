package dispatch

// AllocatePower distributes load over the committed units in merit order.
// Committed units are filled to their effective maximum while the running
// total plus the unit's nominal maximum stays below load; the next committed
// unit takes the remainder and every later unit stays at zero. The running
// total advances by the nominal maximum, so fuels with an availability factor
// below one are under-counted by the curtailed share.
// The remainder unit is not raised to its effective minimum, so it may run
// below it.
func AllocatePower(load float64, units []EffectiveUnit, c Commitment) ([]float64, error) {
	powers := make([]float64, len(units))
	var running float64
	for i, u := range units {
		if !c.On[i] {
			continue
		}
		if running+u.Plant.PMax < load {
			powers[i] = u.Max
			running += u.Plant.PMax
			continue
		}
		powers[i] = load - running
		return powers, nil
	}
	return nil, &AllocationInvariantError{Load: load, Reached: running, Committed: c.Committed()}
}
