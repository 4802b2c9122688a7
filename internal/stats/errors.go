package stats

import "fmt"

// SingularMatrix reports a covariance matrix that stayed non-invertible
// after the single permitted ridge attempt. Callers fall back to
// diagonal-only analysis and must flag having done so.
type SingularMatrix struct {
	Dim   int
	Ridge float64
}

func (e *SingularMatrix) Error() string {
	return fmt.Sprintf("covariance matrix (%dx%d) not positive definite after ridge %.3e", e.Dim, e.Dim, e.Ridge)
}

// StructuralInapplicability reports a statistic that cannot be formed
// at all, as opposed to one that evaluates badly. Withholding the
// observable that anchors the overall mass scale leaves the remaining
// predictions undefined, so no number is returned for it.
type StructuralInapplicability struct {
	Observable string
	Reason     string
}

func (e *StructuralInapplicability) Error() string {
	return fmt.Sprintf("statistic structurally inapplicable for %s: %s", e.Observable, e.Reason)
}
