package wave

import (
	"errors"
	"fmt"
)

// Domain errors for lattice evolution.
var (
	// ErrInvalidDimension indicates mismatched hopping/onsite lengths, an
	// empty lattice, or a state whose length differs from the operator.
	ErrInvalidDimension = errors.New("wave: invalid dimension")

	// ErrInvalidPartition indicates a worker count outside [1, N] or a
	// row block that does not lie inside the matrix.
	ErrInvalidPartition = errors.New("wave: invalid worker partition")

	// ErrInvalidTimeGrid indicates fewer than two sample times or a grid
	// that is not strictly increasing.
	ErrInvalidTimeGrid = errors.New("wave: invalid time grid")

	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("wave: invalid state (NaN or Inf detected)")
)

// StepError wraps a failure with the time step at which it occurred.
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
