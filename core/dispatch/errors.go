package dispatch

import (
	"errors"
	"fmt"
)

// ErrNoFeasibleCommitment is returned when no combination of units can meet
// the load within their aggregate envelope.
var ErrNoFeasibleCommitment = errors.New("no feasible commitment for load")

// ErrSearchBudgetExceeded is returned when the commitment search visits more
// nodes than allowed. It wraps ErrNoFeasibleCommitment.
var ErrSearchBudgetExceeded = fmt.Errorf("%w: search budget exceeded", ErrNoFeasibleCommitment)

// ErrAllocationInvariant signals that a commitment certified as feasible
// could not be turned into an allocation meeting the load.
var ErrAllocationInvariant = errors.New("allocation invariant violated")

// AllocationInvariantError details an allocation that ran out of committed
// units before reaching the load.
type AllocationInvariantError struct {
	Load      float64
	Reached   float64
	Committed int
}

func (e *AllocationInvariantError) Error() string {
	return fmt.Sprintf("%v: reached %.3f of %.3f MW with %d committed units",
		ErrAllocationInvariant, e.Reached, e.Load, e.Committed)
}

func (e *AllocationInvariantError) Unwrap() error { return ErrAllocationInvariant }
