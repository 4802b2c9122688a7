package propagate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinear_Quadrature(t *testing.T) {
	// For f = x + y the output sigma is the quadrature sum exactly.
	sum := func(x []float64) float64 { return x[0] + x[1] }
	res, err := Linear(sum, []Input{
		{Name: "x", Value: 1, Sigma: 3},
		{Name: "y", Value: 2, Sigma: 4},
	})
	require.NoError(t, err)

	assert.Equal(t, 3.0, res.Value)
	assert.InDelta(t, 5.0, res.Sigma, 1e-9)
	require.Len(t, res.Partials, 2)
	assert.InDelta(t, 1.0, res.Partials[0].Derivative, 1e-9)
	assert.InDelta(t, 9.0, res.Partials[0].Contribution, 1e-8)
}

func TestLinear_AnchoredMass(t *testing.T) {
	// m1 = sqrt(anchor/2400): the relative uncertainty of the mass is
	// half the relative uncertainty of the anchoring splitting.
	mass := func(x []float64) float64 { return math.Sqrt(x[0] / 2400) }
	res, err := Linear(mass, []Input{
		{Name: "delta_m31_sq", Value: 2.453e-3, Sigma: 0.033e-3},
	})
	require.NoError(t, err)

	assert.InEpsilon(t, 1.010981e-3, res.Value, 1e-5)
	assert.InEpsilon(t, 6.800323e-6, res.Sigma, 1e-3)
	assert.InDelta(t, 0.0067265, res.Sigma/res.Value, 1e-4,
		"relative sigma must be half the anchor's relative sigma")
}

func TestLinear_ZeroSigmaInput(t *testing.T) {
	f := func(x []float64) float64 { return x[0] * x[1] }
	res, err := Linear(f, []Input{
		{Name: "a", Value: 2, Sigma: 0},
		{Name: "b", Value: 3, Sigma: 0.3},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.6, res.Sigma, 1e-9)
	assert.Zero(t, res.Partials[0].Contribution)
}

func TestSample_Moments(t *testing.T) {
	ident := func(x []float64) float64 { return x[0] }
	res, err := Sample(ident, []Input{{Name: "x", Value: 10, Sigma: 1}}, 1, 20000)
	require.NoError(t, err)

	assert.Equal(t, 20000, res.Count)
	assert.InDelta(t, 10.0, res.Value, 0.05)
	assert.InDelta(t, 1.0, res.Sigma, 0.05)
}

func TestSample_AgreesWithLinearWhenNearlyLinear(t *testing.T) {
	mass := func(x []float64) float64 { return math.Sqrt(x[0] / 2400) }
	inputs := []Input{{Name: "delta_m31_sq", Value: 2.453e-3, Sigma: 0.033e-3}}

	lin, err := Linear(mass, inputs)
	require.NoError(t, err)
	smp, err := Sample(mass, inputs, 1, 20000)
	require.NoError(t, err)

	assert.InEpsilon(t, lin.Value, smp.Value, 1e-3)
	assert.InEpsilon(t, lin.Sigma, smp.Sigma, 0.05)
}

func TestSample_SeedReproducible(t *testing.T) {
	f := func(x []float64) float64 { return x[0] * x[0] }
	inputs := []Input{{Name: "x", Value: 3, Sigma: 0.5}}

	a, err := Sample(f, inputs, 42, 1000)
	require.NoError(t, err)
	b, err := Sample(f, inputs, 42, 1000)
	require.NoError(t, err)
	assert.Equal(t, a, b, "equal seeds must give identical results")

	c, err := Sample(f, inputs, 43, 1000)
	require.NoError(t, err)
	assert.NotEqual(t, a.Value, c.Value)
}

func TestInvalidInputs(t *testing.T) {
	f := func(x []float64) float64 { return x[0] }

	_, err := Linear(f, nil)
	assert.Error(t, err)

	_, err = Linear(f, []Input{{Name: "x", Value: 1, Sigma: -1}})
	assert.Error(t, err)

	_, err = Sample(f, []Input{{Name: "x", Value: 1, Sigma: 1}}, 1, 1)
	assert.Error(t, err)
}

func TestUncertaintyRatio(t *testing.T) {
	r, err := UncertaintyRatio(0.01, 0.2)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, r, 1e-12)
	assert.Less(t, r, NegligibleRatio)

	_, err = UncertaintyRatio(0.01, 0)
	assert.Error(t, err)
}
