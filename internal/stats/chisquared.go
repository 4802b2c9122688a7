package stats

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"physval/internal/observables"
)

// Mode selects the chi-squared error model.
type Mode string

const (
	ModeDiagonal       Mode = "diagonal"
	ModeFullCovariance Mode = "full-covariance"
)

// ChiSquared is one goodness-of-fit evaluation. Dof is the observable
// count minus the number of anchoring observables, whose information
// was consumed fixing the overall scale.
type ChiSquared struct {
	Mode    Mode
	Value   float64
	Dof     int
	Reduced float64
	PValue  float64
}

// ChiSquaredPair reports both error models side by side; neither is
// ever silently preferred. When the covariance cannot be factorized the
// full-covariance slot carries the diagonal numbers and Fallback is
// set, with the reason preserved.
type ChiSquaredPair struct {
	Diagonal       ChiSquared
	Full           ChiSquared
	Fallback       bool
	FallbackReason string
}

// ComputeChiSquared evaluates the table's residuals under both error
// models over the named correlation group.
func ComputeChiSquared(table *observables.Table, group string, ridgeFraction float64) (*ChiSquaredPair, error) {
	records := table.Group(group)
	if len(records) == 0 {
		return nil, fmt.Errorf("correlation group %q has no observables", group)
	}

	dof := len(records) - countAnchors(records)
	if dof < 1 {
		return nil, fmt.Errorf("no degrees of freedom left in group %q", group)
	}

	diag := finish(ModeDiagonal, diagonalValue(records), dof)
	pair := &ChiSquaredPair{Diagonal: diag}

	cov, err := BuildCovariance(records, table.GroupSpec(group), ridgeFraction)
	if err != nil {
		var sm *SingularMatrix
		if !errors.As(err, &sm) {
			return nil, err
		}
		pair.Full = finish(ModeFullCovariance, diag.Value, dof)
		pair.Fallback = true
		pair.FallbackReason = sm.Error()
		return pair, nil
	}

	pair.Full = finish(ModeFullCovariance, cov.QuadraticForm(residuals(records)), dof)
	return pair, nil
}

func diagonalValue(records []observables.Record) float64 {
	chi2 := 0.0
	for _, r := range records {
		d := r.Residual() / totalSigma(r)
		chi2 += d * d
	}
	return chi2
}

func finish(mode Mode, value float64, dof int) ChiSquared {
	dist := distuv.ChiSquared{K: float64(dof)}
	return ChiSquared{
		Mode:    mode,
		Value:   value,
		Dof:     dof,
		Reduced: value / float64(dof),
		PValue:  dist.Survival(value),
	}
}

func residuals(records []observables.Record) []float64 {
	r := make([]float64, len(records))
	for i, rec := range records {
		r[i] = rec.Residual()
	}
	return r
}

func countAnchors(records []observables.Record) int {
	n := 0
	for _, r := range records {
		if r.Anchor {
			n++
		}
	}
	return n
}
