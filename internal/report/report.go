// Package report defines the immutable validation report emitted by a run
// of the engine. The report is a plain value: pass/fail is a pure function
// of the stored test results, and any textual or tabular rendering is an
// external formatter over it.
package report

import (
	"fmt"
	"strings"
)

// Metric is a single named value computed by a test. Metrics are kept as an
// ordered slice rather than a map so that rendering and serialization never
// depend on map iteration order.
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// TestResult records the outcome of one named test in the battery.
type TestResult struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Metrics     []Metric `json:"metrics,omitempty"`
	Tolerance   float64  `json:"tolerance"`
	Passed      bool     `json:"passed"`
	Diagnostics string   `json:"diagnostics,omitempty"`
}

// Metric returns the named metric and whether it was recorded.
func (r TestResult) Metric(name string) (float64, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m.Value, true
		}
	}
	return 0, false
}

// ValidationReport is the canonical artifact of a validation run: the
// ordered test results plus aggregates derived from them.
type ValidationReport struct {
	Suite     string       `json:"suite"`
	Version   string       `json:"version"`
	RunTag    string       `json:"run_tag"`
	Results   []TestResult `json:"results"`
	PassCount int          `json:"tests_passed"`
	Total     int          `json:"tests_total"`
	AllPassed bool         `json:"all_passed"`
}

// New assembles a report from an ordered result list. Aggregates are
// computed here and nowhere else so a report can never disagree with its
// own results.
func New(suite, version, runTag string, results []TestResult) *ValidationReport {
	rep := &ValidationReport{
		Suite:   suite,
		Version: version,
		RunTag:  runTag,
		Results: append([]TestResult(nil), results...),
		Total:   len(results),
	}
	rep.AllPassed = len(results) > 0
	for _, r := range results {
		if r.Passed {
			rep.PassCount++
		} else {
			rep.AllPassed = false
		}
	}
	return rep
}

// Result returns the test result with the given id.
func (rep *ValidationReport) Result(id string) (TestResult, bool) {
	for _, r := range rep.Results {
		if r.ID == id {
			return r, true
		}
	}
	return TestResult{}, false
}

// Summary renders a one-line human summary. Full rendering lives in the
// CLI, not here.
func (rep *ValidationReport) Summary() string {
	status := "FAIL"
	if rep.AllPassed {
		status = "PASS"
	}
	var failed []string
	for _, r := range rep.Results {
		if !r.Passed {
			failed = append(failed, r.ID)
		}
	}
	if len(failed) == 0 {
		return fmt.Sprintf("%s: %d/%d tests passed", status, rep.PassCount, rep.Total)
	}
	return fmt.Sprintf("%s: %d/%d tests passed (failed: %s)",
		status, rep.PassCount, rep.Total, strings.Join(failed, ", "))
}
