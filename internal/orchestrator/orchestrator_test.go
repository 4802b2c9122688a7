package orchestrator

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"physval/internal/config"
	"physval/internal/observables"
	"physval/internal/report"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func loadTable(t *testing.T) *observables.Table {
	t.Helper()
	table, err := observables.Load(filepath.Join("testdata", "pdg2024.yaml"))
	require.NoError(t, err)
	return table
}

func run(t *testing.T) *report.ValidationReport {
	t.Helper()
	rep, err := New(config.Default(), loadTable(t), nil).Run()
	require.NoError(t, err)
	return rep
}

func TestRun_BatteryShape(t *testing.T) {
	rep := run(t)

	wantOrder := []string{
		"ward-closure",
		"alpha-info-uniqueness",
		"spectral-coefficients",
		"electroweak-slope",
		"spectral-closed-form",
		"spectral-numeric-convergence",
		"spectral-cross-check",
		"gravitational-correction",
		"triplet-global-minimum",
		"splitting-ratio-exact",
		"neutrino-sum-bound",
		"chi2-diagonal-vs-full",
		"chi2-goodness",
		"bayes-factor",
		"leave-one-out",
		"uncertainty-budget",
		"cosmology-consistency",
	}
	require.Len(t, rep.Results, len(wantOrder))
	for i, id := range wantOrder {
		assert.Equal(t, id, rep.Results[i].ID, "battery order is fixed")
	}

	assert.Equal(t, Suite, rep.Suite)
	assert.NotEmpty(t, rep.RunTag)
}

func TestRun_ExpectedOutcomes(t *testing.T) {
	rep := run(t)

	// Every test except the spectral cross-check passes on the PDG
	// table: the literature constant and the subtraction-scheme finite
	// part are different regularizations, and the gate reports that
	// instead of reconciling it.
	for _, r := range rep.Results {
		if r.ID == "spectral-cross-check" {
			assert.False(t, r.Passed, "cross-check must surface the path disagreement")
			assert.NotEmpty(t, r.Diagnostics)
			continue
		}
		assert.True(t, r.Passed, "test %s failed: %s", r.ID, r.Diagnostics)
	}

	assert.False(t, rep.AllPassed)
	assert.Equal(t, 16, rep.PassCount)
	assert.Equal(t, 17, rep.Total)
	assert.Contains(t, rep.Summary(), "16/17")
}

func TestRun_KeyMetrics(t *testing.T) {
	rep := run(t)

	ward, ok := rep.Result("ward-closure")
	require.True(t, ok)
	eps, ok := ward.Metric("epsilon")
	require.True(t, ok)
	assert.InDelta(t, 4.031441804149937e-3, eps, 1e-15)

	kappas, ok := rep.Result("spectral-coefficients")
	require.True(t, ok)
	k2, ok := kappas.Metric("kappa2")
	require.True(t, ok)
	assert.InDelta(t, 26.0/3, k2, 1e-15)

	slope, ok := rep.Result("electroweak-slope")
	require.True(t, ok)
	sl, ok := slope.Metric("slope_rg")
	require.True(t, ok)
	assert.InDelta(t, 0.013404649980, sl, 1e-9)
	ratio, ok := slope.Metric("slope_over_alpha")
	require.True(t, ok)
	assert.InDelta(t, 3.806257, ratio, 1e-4)

	cosmo, ok := rep.Result("cosmology-consistency")
	require.True(t, ok)
	dEff, ok := cosmo.Metric("d_eff")
	require.True(t, ok)
	assert.InDelta(t, 3.995968558196, dEff, 1e-9)

	triplet, ok := rep.Result("triplet-global-minimum")
	require.True(t, ok)
	for name, want := range map[string]float64{"n1": 1, "n2": 3, "n3": 7, "candidates": 120} {
		v, ok := triplet.Metric(name)
		require.True(t, ok, name)
		assert.Equal(t, want, v, name)
	}

	split, ok := rep.Result("splitting-ratio-exact")
	require.True(t, ok)
	num, _ := split.Metric("ratio_numerator")
	den, _ := split.Metric("ratio_denominator")
	assert.Equal(t, 1.0, num)
	assert.Equal(t, 30.0, den)

	cross, ok := rep.Result("spectral-cross-check")
	require.True(t, ok)
	gap, ok := cross.Metric("relative_gap")
	require.True(t, ok)
	assert.InDelta(t, 0.508306, gap, 1e-3)

	chi2, ok := rep.Result("chi2-goodness")
	require.True(t, ok)
	v, _ := chi2.Metric("chi2")
	assert.InDelta(t, 15.883951, v, 1e-4)
	p, _ := chi2.Metric("p_value")
	assert.InDelta(t, 0.145494, p, 1e-4)

	bayes, ok := rep.Result("bayes-factor")
	require.True(t, ok)
	b, _ := bayes.Metric("log10_bayes_factor")
	assert.InDelta(t, 8.550844, b, 1e-3)

	loo, ok := rep.Result("leave-one-out")
	require.True(t, ok)
	shift, _ := loo.Metric("max_shift")
	assert.InDelta(t, 13.040123, shift, 1e-3, "the solar splitting dominates the fit")
	structural, _ := loo.Metric("structural_entries")
	assert.Equal(t, 1.0, structural)
}

func TestRun_Deterministic(t *testing.T) {
	a := run(t)
	b := run(t)
	assert.Empty(t, cmp.Diff(a, b), "identical inputs must produce identical reports")
}

func TestRunTag_TracksInputs(t *testing.T) {
	table := loadTable(t)
	cfg := config.Default()

	a, err := New(cfg, table, nil).Run()
	require.NoError(t, err)

	table.Records[1].Experiment += 1e-6
	b, err := New(cfg, table, nil).Run()
	require.NoError(t, err)

	assert.NotEqual(t, a.RunTag, b.RunTag)
}

func TestRun_InvalidTableIsFatal(t *testing.T) {
	_, err := New(config.Default(), &observables.Table{}, nil).Run()

	var ide *observables.InputDataError
	require.ErrorAs(t, err, &ide)
}

func TestRun_CompletesOnDegenerateTable(t *testing.T) {
	// A table with no anchor and jointly inconsistent correlations makes
	// several components error out; the run must still complete with a
	// full report, converting each failure into a failed test result.
	table := &observables.Table{
		Records: []observables.Record{
			{Name: "a", Sector: "s", Theory: 1, Experiment: 1.1, ExperimentSigma: 0.1, CorrelationGroup: "g"},
			{Name: "b", Sector: "s", Theory: 2, Experiment: 2.1, ExperimentSigma: 0.2, CorrelationGroup: "g"},
			{Name: "c", Sector: "s", Theory: 3, Experiment: 3.1, ExperimentSigma: 0.3, CorrelationGroup: "g"},
		},
		Correlations: []observables.CorrelationSpec{{
			Group: "g",
			Pairs: []observables.Correlation{
				{A: "a", B: "b", Rho: 0.9},
				{A: "a", B: "c", Rho: 0.9},
				{A: "b", B: "c", Rho: -0.9},
			},
		}},
	}

	rep, err := New(config.Default(), table, nil).Run()
	require.NoError(t, err)
	require.Len(t, rep.Results, 17)

	modes, ok := rep.Result("chi2-diagonal-vs-full")
	require.True(t, ok)
	assert.False(t, modes.Passed)
	assert.Contains(t, modes.Diagnostics, "fell back to diagonal")

	triplet, ok := rep.Result("triplet-global-minimum")
	require.True(t, ok)
	assert.False(t, triplet.Passed, "no anchor observable, so the scan cannot run")
}
