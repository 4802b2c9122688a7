package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHurwitzZeta_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		s, a float64
		want float64
		tol  float64
	}{
		{"riemann zeta(2)", 2, 1, math.Pi * math.Pi / 6, 1e-12},
		{"zeta(0,5/2) bernoulli", 0, 2.5, -2.0, 1e-13},
		{"zeta(-1,1) = -1/12", -1, 1, -1.0 / 12.0, 1e-13},
		{"zeta(-3,2) bernoulli", -3, 2, -119.0 / 120.0, 1e-12},
		{"zeta(4,1)", 4, 1, math.Pow(math.Pi, 4) / 90, 1e-12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, hurwitzZeta(tt.s, tt.a), tt.tol)
		})
	}
}

func TestHurwitzZetaDeriv_LerchIdentity(t *testing.T) {
	// d/ds zeta(s,a) at s=0 equals ln Gamma(a) - ln(2 pi)/2.
	for _, a := range []float64{1, 3, 7.5} {
		lg, _ := math.Lgamma(a)
		want := lg - 0.5*math.Log(2*math.Pi)
		assert.InDelta(t, want, hurwitzZetaDeriv(0, a), 1e-10, "a=%v", a)
	}
}

func TestHurwitzZetaDeriv_NegativeIntegers(t *testing.T) {
	// zeta'(-1) = 1/12 - ln A with A the Glaisher-Kinkelin constant.
	assert.InDelta(t, -0.1654211437004509, hurwitzZetaDeriv(-1, 1), 1e-9)
	// zeta'(-2) = -zeta(3)/(4 pi^2).
	assert.InDelta(t, -0.0304484570583933, hurwitzZetaDeriv(-2, 1), 1e-9)
}

func TestPochhammerDeriv_FiniteAtZeros(t *testing.T) {
	// d/ds s(s+1)(s+2) at s=-2 via sum-of-products stays finite.
	assert.InDelta(t, 2.0, pochhammerDeriv(-2, 3), 1e-13)
	assert.InDelta(t, 0.0, pochhammer(-2, 3), 0)
}
