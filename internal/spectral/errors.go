package spectral

import "fmt"

// NonConvergence reports a truncated series that failed to stabilize
// within the configured number of doublings. Best carries the last
// estimate so callers can report it with explicit order metadata
// instead of an unmarked approximation.
type NonConvergence struct {
	Best      float64
	Cutoff    int
	Doublings int
	LastDelta float64
	Threshold float64
}

func (e *NonConvergence) Error() string {
	return fmt.Sprintf("spectral sum did not converge after %d doublings (cutoff %d): last delta %.3e exceeds threshold %.3e, best estimate %.12f",
		e.Doublings, e.Cutoff, e.LastDelta, e.Threshold, e.Best)
}

// PathDisagreement reports that the closed-form and numeric computation
// paths disagree beyond the configured relative tolerance. The two
// values are carried verbatim; they are never averaged or otherwise
// reconciled.
type PathDisagreement struct {
	ClosedForm  float64
	Numeric     float64
	RelativeGap float64
	Tolerance   float64
}

func (e *PathDisagreement) Error() string {
	return fmt.Sprintf("spectral paths disagree: closed-form %.12f vs numeric %.12f (relative gap %.6f, tolerance %.2e)",
		e.ClosedForm, e.Numeric, e.RelativeGap, e.Tolerance)
}
