package constants

import "fmt"

// ClosureViolation reports a failed self-consistency identity: two
// independently derived quantities that must agree within tolerance do not.
type ClosureViolation struct {
	A         float64
	B         float64
	Diff      float64
	Tolerance float64
}

func (e *ClosureViolation) Error() string {
	return fmt.Sprintf("closure violation: |%.15e - %.15e| = %.3e >= tolerance %.3e",
		e.A, e.B, e.Diff, e.Tolerance)
}

// PrecisionError means the available arithmetic precision is insufficient
// for a required closure or convergence tolerance.
type PrecisionError struct {
	Op       string
	Required float64
	Achieved float64
}

func (e *PrecisionError) Error() string {
	if e.Required == 0 && e.Achieved == 0 {
		return fmt.Sprintf("insufficient precision: %s", e.Op)
	}
	return fmt.Sprintf("insufficient precision in %s: required %.3e, achieved %.3e",
		e.Op, e.Required, e.Achieved)
}
