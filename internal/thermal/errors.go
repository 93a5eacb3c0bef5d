package thermal

import (
	"errors"
	"fmt"
)

// Domain errors for simulation construction and execution.
var (
	// ErrParameterBounds indicates a parameter value outside its valid range.
	ErrParameterBounds = errors.New("thermal: parameter out of valid bounds")

	// ErrOriginOutOfBounds indicates an origin coordinate outside the cube.
	ErrOriginOutOfBounds = errors.New("thermal: origin outside cube bounds")

	// ErrInvalidField indicates a field containing NaN or Inf, typically
	// from degenerate material parameters.
	ErrInvalidField = errors.New("thermal: field contains NaN or Inf")
)

// StepError wraps an error with the propagation step it occurred on.
type StepError struct {
	Step    int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
