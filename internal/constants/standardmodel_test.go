package constants

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSpectralCoefficients(t *testing.T) {
	k := DeriveSpectralCoefficients()

	assert.Zero(t, k.Kappa1.Cmp(big.NewRat(14, 1)), "kappa_1 is normalized to 14")
	assert.Zero(t, k.Kappa2.Cmp(big.NewRat(26, 3)), "kappa_2 must be exactly 26/3")
	assert.Zero(t, k.Kappa3.Cmp(big.NewRat(8, 1)), "kappa_3 must be exactly 8")
	assert.Zero(t, k.HyperchargeSum.Cmp(big.NewRat(10, 3)), "per-generation hypercharge sum is 10/3")
	assert.Zero(t, k.Normalization.Cmp(big.NewRat(280, 81)))

	k1, k2, k3 := k.Values()
	assert.Equal(t, 14.0, k1)
	assert.InDelta(t, 26.0/3, k2, 1e-15)
	assert.Equal(t, 8.0, k3)
}

func TestElectroweakSlope(t *testing.T) {
	d, err := Derive()
	require.NoError(t, err)

	s := ElectroweakSlope(d.AlphaInfo.Value, d.Epsilon.Value, DeriveSpectralCoefficients())

	require.Len(t, s.Steps, 4)
	assert.InDelta(t, 0.013404649980, s.Slope, 1e-9)
	assert.InDelta(t, 3.806257, s.Ratio, 1e-4)

	// The finite-difference slope stabilizes under step refinement; the
	// refinement ladder still shows its O(dt) drift at tight tolerances.
	assert.True(t, s.Converged(1e-3))
	assert.False(t, s.Converged(1e-9))
}

func TestEWSlope_ConvergedNeedsRefinements(t *testing.T) {
	assert.False(t, EWSlope{Steps: []float64{0.0134}}.Converged(1e-3))
}
