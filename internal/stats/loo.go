package stats

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"physval/internal/observables"
)

// Leave-one-out influence analysis: the full-covariance chi-squared is
// recomputed with each observable withheld in turn, and the shift from
// the baseline measures that observable's pull on the fit. Withholding
// an anchor is structurally inapplicable: without it the mass scale,
// and with it every prediction, is undefined.

// Influence is one withholding outcome. Structural entries carry no
// numeric artifact.
type Influence struct {
	Name       string
	Structural bool
	ChiSquared float64
	Shift      float64
}

// LeaveOneOutResult aggregates per-observable and per-sector influence
// against the full-table baseline.
type LeaveOneOutResult struct {
	Baseline      float64
	PerObservable []Influence
	PerSector     []Influence
}

// LeaveOneOut runs the full influence analysis over one correlation
// group. The per-observable loop is independent given the precomputed
// baseline and fans out across index-addressed slots.
func LeaveOneOut(table *observables.Table, group string, ridgeFraction float64) (*LeaveOneOutResult, error) {
	records := table.Group(group)
	if len(records) < 2 {
		return nil, fmt.Errorf("leave-one-out needs at least two observables, got %d", len(records))
	}
	spec := table.GroupSpec(group)

	baseline, err := fullChiSquared(records, spec, ridgeFraction)
	if err != nil {
		return nil, err
	}

	res := &LeaveOneOutResult{
		Baseline:      baseline,
		PerObservable: make([]Influence, len(records)),
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range records {
		i := i
		g.Go(func() error {
			inf, err := withhold(records, spec, ridgeFraction, baseline, func(r observables.Record) bool {
				return r.Name == records[i].Name
			}, records[i].Name)
			if err != nil && !inf.Structural {
				return err
			}
			// Structural entries are an expected outcome here, not a
			// failure of the analysis.
			res.PerObservable[i] = inf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, sector := range sectors(records) {
		inf, err := withhold(records, spec, ridgeFraction, baseline, func(r observables.Record) bool {
			return r.Sector == sector
		}, sector)
		if err != nil && !inf.Structural {
			return nil, err
		}
		res.PerSector = append(res.PerSector, inf)
	}
	return res, nil
}

// WithholdObservable recomputes the full-covariance chi-squared with a
// single named observable excluded. Excluding an anchor returns
// *StructuralInapplicability.
func WithholdObservable(table *observables.Table, group, name string, ridgeFraction float64) (Influence, error) {
	records := table.Group(group)
	spec := table.GroupSpec(group)
	baseline, err := fullChiSquared(records, spec, ridgeFraction)
	if err != nil {
		return Influence{}, err
	}
	return withhold(records, spec, ridgeFraction, baseline, func(r observables.Record) bool {
		return r.Name == name
	}, name)
}

func withhold(records []observables.Record, spec observables.CorrelationSpec, ridgeFraction, baseline float64,
	drop func(observables.Record) bool, label string) (Influence, error) {

	var kept []observables.Record
	for _, r := range records {
		if drop(r) {
			if r.Anchor {
				return Influence{Name: label, Structural: true}, &StructuralInapplicability{
					Observable: r.Name,
					Reason:     "anchors the overall mass scale; remaining predictions are undefined without it",
				}
			}
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == len(records) {
		return Influence{}, fmt.Errorf("no observable matched %q", label)
	}

	chi2, err := fullChiSquared(kept, restrict(spec, kept), ridgeFraction)
	if err != nil {
		return Influence{}, err
	}
	return Influence{Name: label, ChiSquared: chi2, Shift: baseline - chi2}, nil
}

func fullChiSquared(records []observables.Record, spec observables.CorrelationSpec, ridgeFraction float64) (float64, error) {
	cov, err := BuildCovariance(records, spec, ridgeFraction)
	if err != nil {
		return 0, err
	}
	return cov.QuadraticForm(residuals(records)), nil
}

// restrict drops correlation pairs naming a withheld observable.
func restrict(spec observables.CorrelationSpec, kept []observables.Record) observables.CorrelationSpec {
	present := make(map[string]bool, len(kept))
	for _, r := range kept {
		present[r.Name] = true
	}
	out := observables.CorrelationSpec{Group: spec.Group}
	for _, p := range spec.Pairs {
		if present[p.A] && present[p.B] {
			out.Pairs = append(out.Pairs, p)
		}
	}
	return out
}

func sectors(records []observables.Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if !seen[r.Sector] {
			seen[r.Sector] = true
			out = append(out, r.Sector)
		}
	}
	return out
}
