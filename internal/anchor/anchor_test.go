package anchor

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func pdgConfig() Config {
	return Config{NMax: 10, SumMassBound: 0.12, PenaltySigma: 0.02}
}

func pdgMeasurements() (Measurement, Measurement) {
	return Measurement{Value: 2.453e-3, Sigma: 0.033e-3},
		Measurement{Value: 7.53e-5, Sigma: 0.18e-5}
}

func TestSearch_PDGSplittings(t *testing.T) {
	atm, solar := pdgMeasurements()
	ranking, err := Search(pdgConfig(), atm, solar)
	require.NoError(t, err)

	assert.Len(t, ranking.Candidates, 120, "C(10,3) triplets")

	best := ranking.Best
	assert.Equal(t, [3]int{1, 3, 7}, [3]int{best.N1, best.N2, best.N3})
	assert.InDelta(t, 12.906722, best.ChiSquared, 1e-4)
	assert.InDelta(t, 8.176667e-5, best.PredictedSolar, 1e-10)

	m := best.Masses()
	assert.InEpsilon(t, 1.010981e-3, m[0], 1e-5)
	assert.InEpsilon(t, 9.098832e-3, m[1], 1e-5)
	assert.InEpsilon(t, 4.953809e-2, m[2], 1e-5)
	assert.Less(t, best.MassSum, 0.12, "best family must satisfy the cosmology bound")

	runnerUp := ranking.Candidates[1]
	assert.Equal(t, [3]int{2, 3, 7}, [3]int{runnerUp.N1, runnerUp.N2, runnerUp.N3})
	assert.InDelta(t, 22.020862, runnerUp.ChiSquared, 1e-4)
}

func TestSearch_Exhaustive(t *testing.T) {
	// The returned minimum must beat or tie every enumerated candidate,
	// and the ranking must be totally ordered.
	atm, solar := pdgMeasurements()
	ranking, err := Search(pdgConfig(), atm, solar)
	require.NoError(t, err)

	for i, c := range ranking.Candidates {
		assert.LessOrEqual(t, ranking.Best.ChiSquared, c.ChiSquared)
		if i > 0 {
			prev := ranking.Candidates[i-1]
			less := prev.ChiSquared < c.ChiSquared ||
				(prev.ChiSquared == c.ChiSquared &&
					[3]int{prev.N1, prev.N2, prev.N3} != [3]int{c.N1, c.N2, c.N3})
			assert.True(t, less, "ranking order violated at %d", i)
		}
	}
}

func TestSearch_SmallBound(t *testing.T) {
	atm, solar := pdgMeasurements()
	cfg := pdgConfig()
	cfg.NMax = 4

	ranking, err := Search(cfg, atm, solar)
	require.NoError(t, err)
	assert.Len(t, ranking.Candidates, 4, "C(4,3) triplets")
}

func TestSearch_InvalidInputs(t *testing.T) {
	atm, solar := pdgMeasurements()

	tests := []struct {
		name   string
		mutate func(*Config, *Measurement, *Measurement)
	}{
		{"n_max too small", func(c *Config, _, _ *Measurement) { c.NMax = 2 }},
		{"non-positive anchor", func(_ *Config, a, _ *Measurement) { a.Value = 0 }},
		{"zero anchor sigma", func(_ *Config, a, _ *Measurement) { a.Sigma = 0 }},
		{"zero solar sigma", func(_ *Config, _, s *Measurement) { s.Sigma = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, a, s := pdgConfig(), atm, solar
			tt.mutate(&cfg, &a, &s)
			_, err := Search(cfg, a, s)
			assert.Error(t, err)
		})
	}
}

func TestCandidate_SplittingRatio(t *testing.T) {
	c := Candidate{N1: 1, N2: 3, N3: 7}
	assert.Zero(t, c.SplittingRatio().Cmp(big.NewRat(1, 30)),
		"(3^4-1)/(7^4-1) = 80/2400 must reduce to exactly 1/30")
}

func TestSearch_Deterministic(t *testing.T) {
	atm, solar := pdgMeasurements()
	a, err := Search(pdgConfig(), atm, solar)
	require.NoError(t, err)
	b, err := Search(pdgConfig(), atm, solar)
	require.NoError(t, err)
	assert.Equal(t, a.Candidates, b.Candidates)
}
