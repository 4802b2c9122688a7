// Package observables defines the strongly typed, validated schema for
// experimental observables consumed by the statistical validator. Loading
// fails fast on missing or malformed fields instead of letting undefined
// values propagate into statistics.
package observables

import (
	"fmt"
	"math"
)

// Record pairs one theoretical prediction with its experimental
// measurement.
type Record struct {
	Name            string  `yaml:"name"`
	Sector          string  `yaml:"sector"`
	Theory          float64 `yaml:"theory"`
	TheorySigma     float64 `yaml:"theory_sigma"`
	Experiment      float64 `yaml:"experiment"`
	ExperimentSigma float64 `yaml:"experiment_sigma"`
	// CorrelationGroup names the covariance group this record belongs to.
	CorrelationGroup string `yaml:"correlation_group"`
	// Anchor marks the observable that fixes the overall scale of the
	// prediction family. Anchors are excluded from chi-squared degrees of
	// freedom and cannot be withheld in leave-one-out.
	Anchor bool `yaml:"anchor"`
	// Provenance documents where the experimental value comes from
	// (e.g. "PDG 2024", "NuFit 6.0").
	Provenance string `yaml:"provenance"`
}

// Residual is theory minus experiment.
func (r Record) Residual() float64 { return r.Theory - r.Experiment }

// Pull is the residual in units of the experimental uncertainty.
func (r Record) Pull() float64 { return r.Residual() / r.ExperimentSigma }

// Correlation is one off-diagonal correlation coefficient between two
// named observables of the same group.
type Correlation struct {
	A   string  `yaml:"a"`
	B   string  `yaml:"b"`
	Rho float64 `yaml:"rho"`
}

// CorrelationSpec lists the pairwise correlations of one group.
type CorrelationSpec struct {
	Group string        `yaml:"group"`
	Pairs []Correlation `yaml:"pairs"`
}

// Table is the full validated input: records in file order plus the
// correlation specification per group.
type Table struct {
	Records      []Record          `yaml:"observables"`
	Correlations []CorrelationSpec `yaml:"correlations"`
}

// ByName returns the record with the given name.
func (t *Table) ByName(name string) (Record, bool) {
	for _, r := range t.Records {
		if r.Name == name {
			return r, true
		}
	}
	return Record{}, false
}

// Anchors returns the names of all anchor observables, in table order.
func (t *Table) Anchors() []string {
	var names []string
	for _, r := range t.Records {
		if r.Anchor {
			names = append(names, r.Name)
		}
	}
	return names
}

// Group returns the records belonging to one correlation group, in table
// order.
func (t *Table) Group(group string) []Record {
	var out []Record
	for _, r := range t.Records {
		if r.CorrelationGroup == group {
			out = append(out, r)
		}
	}
	return out
}

// GroupSpec returns the correlation spec for a group, or an empty spec if
// none was declared (purely diagonal group).
func (t *Table) GroupSpec(group string) CorrelationSpec {
	for _, s := range t.Correlations {
		if s.Group == group {
			return s
		}
	}
	return CorrelationSpec{Group: group}
}

// Validate checks every field the statistics depend on. Any failure is an
// InputDataError, which is fatal to the run.
func (t *Table) Validate() error {
	if len(t.Records) == 0 {
		return &InputDataError{Field: "observables", Reason: "table is empty"}
	}

	seen := make(map[string]bool, len(t.Records))
	for i, r := range t.Records {
		where := fmt.Sprintf("observables[%d]", i)
		if r.Name == "" {
			return &InputDataError{Field: where + ".name", Reason: "missing"}
		}
		if seen[r.Name] {
			return &InputDataError{Field: where + ".name", Reason: "duplicate name " + r.Name}
		}
		seen[r.Name] = true
		if r.Sector == "" {
			return &InputDataError{Field: where + ".sector", Reason: "missing"}
		}
		numeric := []struct {
			field string
			value float64
		}{
			{".theory", r.Theory},
			{".theory_sigma", r.TheorySigma},
			{".experiment", r.Experiment},
			{".experiment_sigma", r.ExperimentSigma},
		}
		for _, n := range numeric {
			if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
				return &InputDataError{Field: where + n.field, Reason: "not finite"}
			}
		}
		if r.ExperimentSigma <= 0 {
			return &InputDataError{Field: where + ".experiment_sigma", Reason: "must be positive"}
		}
		if r.TheorySigma < 0 {
			return &InputDataError{Field: where + ".theory_sigma", Reason: "must be non-negative"}
		}
	}

	for i, spec := range t.Correlations {
		where := fmt.Sprintf("correlations[%d]", i)
		if spec.Group == "" {
			return &InputDataError{Field: where + ".group", Reason: "missing"}
		}
		for j, p := range spec.Pairs {
			pw := fmt.Sprintf("%s.pairs[%d]", where, j)
			a, okA := t.ByName(p.A)
			b, okB := t.ByName(p.B)
			if !okA {
				return &InputDataError{Field: pw + ".a", Reason: "unknown observable " + p.A}
			}
			if !okB {
				return &InputDataError{Field: pw + ".b", Reason: "unknown observable " + p.B}
			}
			if a.CorrelationGroup != spec.Group || b.CorrelationGroup != spec.Group {
				return &InputDataError{Field: pw, Reason: "pair members must belong to group " + spec.Group}
			}
			if p.Rho <= -1 || p.Rho >= 1 {
				return &InputDataError{Field: pw + ".rho", Reason: "must lie in (-1, 1)"}
			}
		}
	}
	return nil
}
