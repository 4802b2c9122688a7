package constants

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive_WardClosure(t *testing.T) {
	d, err := Derive()
	require.NoError(t, err)

	// epsilon = alpha_info * ln(pi) must equal (2 pi)^-3 at 1e-12,
	// checked in arbitrary precision.
	epsDirect := math.Pow(2*math.Pi, -3)
	require.NoError(t, VerifyClosure(d.Epsilon.Value, epsDirect, 1e-12))

	// And the big.Float evaluation must close far tighter than float64.
	lnPi := d.LnPiBig()
	eps := new(big.Float).Mul(d.AlphaInfoBig(), lnPi)
	require.NoError(t, VerifyClosureBig(eps, d.EpsilonBig(), 1e-40))
}

func TestDerive_KnownValues(t *testing.T) {
	d, err := Derive()
	require.NoError(t, err)

	// Manuscript reference values.
	assert.InDelta(t, 0.003521740677853, d.AlphaInfo.Value, 1e-12)
	assert.InDelta(t, math.Pow(2*math.Pi, -3), d.Epsilon.Value, 1e-15)
	assert.InDelta(t, 5.6488, d.LnAlphaInfoAbs.Value, 1e-3)
	assert.InDelta(t, 3.99597, d.DEff.Value, 1e-4)
}

func TestDerive_Provenance(t *testing.T) {
	d, err := Derive()
	require.NoError(t, err)

	for _, c := range []PhysicalConstant{d.AlphaInfo, d.Epsilon, d.LnAlphaInfoAbs, d.DEff} {
		assert.Equal(t, Derived, c.Provenance, c.Name)
		assert.Zero(t, c.Uncertainty, c.Name)
		assert.LessOrEqual(t, c.RelPrecision, 1e-12, c.Name)
	}
}

func TestDerive_Deterministic(t *testing.T) {
	a, err := Derive()
	require.NoError(t, err)
	b, err := Derive()
	require.NoError(t, err)

	assert.Equal(t, a.AlphaInfo.Value, b.AlphaInfo.Value)
	assert.Equal(t, a.Epsilon.Value, b.Epsilon.Value)
	assert.Zero(t, a.AlphaInfoBig().Cmp(b.AlphaInfoBig()))
}

func TestVerifyClosure_Violation(t *testing.T) {
	err := VerifyClosure(1.0, 1.0+1e-6, 1e-9)
	require.Error(t, err)

	var cv *ClosureViolation
	require.ErrorAs(t, err, &cv)
	assert.InDelta(t, 1e-6, cv.Diff, 1e-12)
	assert.Equal(t, 1e-9, cv.Tolerance)
	assert.Contains(t, cv.Error(), "closure violation")
}

func TestVerifyClosure_Passes(t *testing.T) {
	assert.NoError(t, VerifyClosure(1.0, 1.0+1e-15, 1e-12))
}

func TestAlternativeClosures_AllFail(t *testing.T) {
	alts := AlternativeClosures()
	require.Len(t, alts, 2)

	for _, alt := range alts {
		// The rejected normalizations miss closure by many orders of
		// magnitude, not by rounding.
		assert.Greater(t, alt.Residual, 1e-6, alt.Expression)
		assert.Error(t, VerifyClosure(alt.Epsilon, math.Pow(2*math.Pi, -3), 1e-12), alt.Expression)
	}

	// Both candidates are judged under eps = alpha * ln(pi). The second
	// one in particular must not be paired with ln(2*pi), where it would
	// reduce to (2*pi)^-3 and close with zero residual.
	assert.InDelta(t, 4.031441804150e-3, alts[0].Residual, 1e-12, alts[0].Expression)
	assert.InDelta(t, 1.520440388104e-3, alts[1].Residual, 1e-12, alts[1].Expression)
}

func TestAccessorsReturnCopies(t *testing.T) {
	d, err := Derive()
	require.NoError(t, err)

	a := d.AlphaInfoBig()
	a.SetFloat64(0) // mutating the copy must not touch the context

	assert.NotZero(t, d.AlphaInfoBig().Sign())
}
