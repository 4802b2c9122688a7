package observables

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_PDG2024(t *testing.T) {
	table, err := Load(filepath.Join("testdata", "pdg2024.yaml"))
	require.NoError(t, err)

	assert.Len(t, table.Records, 12)
	assert.Equal(t, []string{"delta_m31_sq"}, table.Anchors())

	anchor, ok := table.ByName("delta_m31_sq")
	require.True(t, ok)
	assert.True(t, anchor.Anchor)
	assert.Equal(t, 2.453e-3, anchor.Experiment)

	spec := table.GroupSpec("global")
	assert.Len(t, spec.Pairs, 3)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.yaml"))
	require.Error(t, err)
}

func TestParse_UnknownFieldRejected(t *testing.T) {
	_, err := Parse([]byte(`
observables:
  - name: x
    sector: s
    theory: 1.0
    experiment: 1.0
    experiment_sigma: 0.1
    correlation_group: g
    surprise: true
`))
	var ide *InputDataError
	require.ErrorAs(t, err, &ide)
}

func TestValidate(t *testing.T) {
	base := func() *Table {
		return &Table{Records: []Record{
			{Name: "a", Sector: "s", Theory: 1, Experiment: 1.1, ExperimentSigma: 0.1, CorrelationGroup: "g"},
			{Name: "b", Sector: "s", Theory: 2, Experiment: 2.1, ExperimentSigma: 0.2, CorrelationGroup: "g"},
		}}
	}

	tests := []struct {
		name    string
		mutate  func(*Table)
		wantErr string
	}{
		{
			name:   "valid table",
			mutate: func(*Table) {},
		},
		{
			name:    "empty table",
			mutate:  func(tb *Table) { tb.Records = nil },
			wantErr: "empty",
		},
		{
			name:    "missing name",
			mutate:  func(tb *Table) { tb.Records[0].Name = "" },
			wantErr: "name",
		},
		{
			name:    "duplicate name",
			mutate:  func(tb *Table) { tb.Records[1].Name = "a" },
			wantErr: "duplicate",
		},
		{
			name:    "zero experimental sigma",
			mutate:  func(tb *Table) { tb.Records[0].ExperimentSigma = 0 },
			wantErr: "positive",
		},
		{
			name:    "negative theory sigma",
			mutate:  func(tb *Table) { tb.Records[0].TheorySigma = -1 },
			wantErr: "non-negative",
		},
		{
			name: "correlation names unknown observable",
			mutate: func(tb *Table) {
				tb.Correlations = []CorrelationSpec{{Group: "g", Pairs: []Correlation{{A: "a", B: "zz", Rho: 0.5}}}}
			},
			wantErr: "unknown observable",
		},
		{
			name: "correlation out of range",
			mutate: func(tb *Table) {
				tb.Correlations = []CorrelationSpec{{Group: "g", Pairs: []Correlation{{A: "a", B: "b", Rho: 1.0}}}}
			},
			wantErr: "(-1, 1)",
		},
		{
			name: "pair member outside group",
			mutate: func(tb *Table) {
				tb.Records[1].CorrelationGroup = "other"
				tb.Correlations = []CorrelationSpec{{Group: "g", Pairs: []Correlation{{A: "a", B: "b", Rho: 0.5}}}}
			},
			wantErr: "belong to group",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := base()
			tt.mutate(tb)
			err := tb.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var ide *InputDataError
			require.ErrorAs(t, err, &ide)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRecord_Pull(t *testing.T) {
	r := Record{Theory: 1.2, Experiment: 1.0, ExperimentSigma: 0.1}
	assert.InDelta(t, 2.0, r.Pull(), 1e-12)
}
