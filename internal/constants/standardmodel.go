package constants

import (
	"math"
	"math/big"
)

// SpectralCoefficients are the one-loop gauge kernel coefficients
// kappa_1, kappa_2, kappa_3 assembled from the Standard Model field
// content: three generations of Weyl fermions, one complex Higgs
// doublet, and the gauge/ghost sectors. Hypercharge is SU(5)-normalized
// and the U(1) kernel is rescaled so kappa_1 = 14.
type SpectralCoefficients struct {
	Kappa1 *big.Rat // U(1)_Y, GUT-normalized and rescaled
	Kappa2 *big.Rat // SU(2)_L
	Kappa3 *big.Rat // SU(3)_c

	// HyperchargeSum is the per-generation sum of Y^2 over the Weyl
	// fermions, before GUT normalization.
	HyperchargeSum *big.Rat
	// Normalization is the rescaling applied to the raw U(1) kernel.
	Normalization *big.Rat
}

// Values returns the coefficients as float64s.
func (s SpectralCoefficients) Values() (k1, k2, k3 float64) {
	k1, _ = s.Kappa1.Float64()
	k2, _ = s.Kappa2.Float64()
	k3, _ = s.Kappa3.Float64()
	return k1, k2, k3
}

// DeriveSpectralCoefficients assembles the coefficients in exact rational
// arithmetic. Reference values: kappa_1 = 14, kappa_2 = 26/3, kappa_3 = 8.
func DeriveSpectralCoefficients() SpectralCoefficients {
	// SU(2)_L: 8 doublet Weyl per generation (Q_L over 3 colors + L_L),
	// 24 over 3 generations, T(2) = 1/2; plus 1/3 for the complex Higgs
	// doublet and 1/3 for the gauge/ghost block.
	sumT2 := big.NewRat(24, 2)
	kappa2 := new(big.Rat).Mul(big.NewRat(2, 3), sumT2)
	kappa2.Add(kappa2, big.NewRat(1, 3))
	kappa2.Add(kappa2, big.NewRat(1, 3))

	// SU(3)_c: 4 triplets per generation (Q_L, u_R, d_R), 12 over 3
	// generations, T(3) = 1/2; plus 4 for the gluon/ghost block.
	sumT3 := big.NewRat(12, 2)
	kappa3 := new(big.Rat).Mul(big.NewRat(2, 3), sumT3)
	kappa3.Add(kappa3, big.NewRat(4, 1))

	// U(1)_Y per generation: sum of Y^2 over Q_L, u_R, d_R, L_L, e_R.
	sumY2 := new(big.Rat)
	for _, f := range []struct {
		weyl int64
		y    *big.Rat
	}{
		{6, big.NewRat(1, 6)},
		{3, big.NewRat(2, 3)},
		{3, big.NewRat(-1, 3)},
		{2, big.NewRat(-1, 2)},
		{1, big.NewRat(-1, 1)},
	} {
		y2 := new(big.Rat).Mul(f.y, f.y)
		sumY2.Add(sumY2, y2.Mul(y2, big.NewRat(f.weyl, 1)))
	}

	gut := big.NewRat(3, 5)
	fermions := new(big.Rat).Mul(big.NewRat(2, 3), gut)
	fermions.Mul(fermions, big.NewRat(3, 1))
	fermions.Mul(fermions, sumY2)
	higgs := new(big.Rat).Mul(big.NewRat(1, 3), gut)
	higgs.Mul(higgs, big.NewRat(1, 4))
	raw := new(big.Rat).Add(fermions, higgs)

	norm := new(big.Rat).Quo(big.NewRat(14, 1), raw)
	kappa1 := new(big.Rat).Mul(norm, raw)

	return SpectralCoefficients{
		Kappa1:         kappa1,
		Kappa2:         kappa2,
		Kappa3:         kappa3,
		HyperchargeSum: sumY2,
		Normalization:  norm,
	}
}

// Electroweak reference point at the Z pole (GUT-normalized couplings)
// and the 1-loop beta coefficients, dg_i/dt = b_i g_i^3 / (16 pi^2).
const (
	g1AtMZ = 0.462
	g2AtMZ = 0.653
	beta1  = 41.0 / 10
	beta2  = -19.0 / 6
)

// EWSlope is the finite-difference slope d(sin^2 theta_W)/d(alpha_em^-1)
// taken along the renormalization-group direction, refined over a fixed
// ladder of shrinking RG steps. Steps holds one slope per refinement;
// Slope is the finest. Ratio relates the slope to alpha_info and is
// reported, not asserted.
type EWSlope struct {
	Steps     []float64
	Slope     float64
	AlphaInfo float64
	Ratio     float64
}

// Converged reports whether successive refinements agree within relTol.
func (s EWSlope) Converged(relTol float64) bool {
	if len(s.Steps) < 2 {
		return false
	}
	for i := 1; i < len(s.Steps); i++ {
		if math.Abs(s.Steps[i]-s.Steps[i-1]) > relTol*math.Abs(s.Steps[i]) {
			return false
		}
	}
	return true
}

// ElectroweakSlope differentiates the spectral relations
//
//	alpha_em^-1  = k1 g1^-2 + k2 g2^-2 + eps (k1 + k2)
//	sin^2 theta_W = (k1 g1^-2 + eps k1) / alpha_em^-1
//
// along the 1-loop RG flow with finite differences, halving the step
// until the slope stabilizes.
func ElectroweakSlope(alphaInfo, epsilon float64, k SpectralCoefficients) EWSlope {
	k1, k2, _ := k.Values()

	alphaInv := func(g1, g2 float64) float64 {
		return k1/(g1*g1) + k2/(g2*g2) + epsilon*(k1+k2)
	}
	sin2 := func(g1, g2 float64) float64 {
		return (k1/(g1*g1) + epsilon*k1) / alphaInv(g1, g2)
	}
	step := func(g1, g2, dt float64) (float64, float64) {
		return g1 + beta1/(16*math.Pi*math.Pi)*g1*g1*g1*dt,
			g2 + beta2/(16*math.Pi*math.Pi)*g2*g2*g2*dt
	}

	res := EWSlope{AlphaInfo: alphaInfo}
	a0 := alphaInv(g1AtMZ, g2AtMZ)
	s0 := sin2(g1AtMZ, g2AtMZ)
	for _, dt := range []float64{1e-3, 5e-4, 1e-4, 5e-5} {
		g1p, g2p := step(g1AtMZ, g2AtMZ, dt)
		slope := (sin2(g1p, g2p) - s0) / (alphaInv(g1p, g2p) - a0)
		res.Steps = append(res.Steps, slope)
	}
	res.Slope = res.Steps[len(res.Steps)-1]
	res.Ratio = res.Slope / alphaInfo
	return res
}
