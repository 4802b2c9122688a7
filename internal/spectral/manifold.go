package spectral

import "math"

// Package-level manifold data for the graviton one-loop determinant on
// the round four-sphere in de Donder gauge. Eigenvalues of the relevant
// Laplacians are lambda_l = l(l+3) + c with a per-sector shift c, and
// degeneracies are cubic polynomials in l.

// Sector describes one spin sector of the fluctuation operator.
type Sector struct {
	Name string
	Spin int
	// Shift is the constant c in lambda_l = l(l+3) + c.
	Shift float64
	// Weight is the sector's coefficient in the combined determinant.
	Weight float64
	// Deg holds the degeneracy polynomial coefficients, ascending in l.
	Deg [4]float64
}

// Eigenvalue returns lambda_l for the sector.
func (s Sector) Eigenvalue(l float64) float64 {
	return l*(l+3) + s.Shift
}

// Degeneracy evaluates the sector's multiplicity polynomial at l.
func (s Sector) Degeneracy(l float64) float64 {
	return s.Deg[0] + l*(s.Deg[1]+l*(s.Deg[2]+l*s.Deg[3]))
}

// S4GravitonSectors returns the ghost (spin-1), transverse-traceless
// (spin-2) and trace (spin-0) sectors on S^4. The combined integrand
//
//	t_l = d1 ln(lambda1) - 1/2 d2 ln(lambda2) - 1/2 d0 ln(lambda0)
//
// carries weight +1 for the ghost and -1/2 for the tensor and trace
// parts, and is summed from l = 2 where all three sectors are present.
func S4GravitonSectors() []Sector {
	return []Sector{
		{
			Name:   "ghost",
			Spin:   1,
			Shift:  3,
			Weight: 1,
			// l(l+3)(2l+3)/3
			Deg: [4]float64{0, 3, 3, 2.0 / 3.0},
		},
		{
			Name:   "tt",
			Spin:   2,
			Shift:  2,
			Weight: -0.5,
			// 5(l-1)(l+4)(2l+3)/6
			Deg: [4]float64{-10, 5.0 / 6.0, 15.0 / 2.0, 5.0 / 3.0},
		},
		{
			Name:   "trace",
			Spin:   0,
			Shift:  4,
			Weight: -0.5,
			// (l+1)(l+2)(2l+3)/6
			Deg: [4]float64{1, 13.0 / 6.0, 3.0 / 2.0, 1.0 / 3.0},
		},
	}
}

// combinedIntegrand evaluates t_l across all sectors.
func combinedIntegrand(sectors []Sector, l float64) float64 {
	t := 0.0
	for _, s := range sectors {
		t += s.Weight * s.Degeneracy(l) * math.Log(s.Eigenvalue(l))
	}
	return t
}
