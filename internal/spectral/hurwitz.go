package spectral

import (
	"math"

	"gonum.org/v1/gonum/mathext"
)

// Euler-Maclaurin machinery for the Hurwitz zeta function and its
// s-derivative. gonum's mathext.Zeta only covers s > 1, so values at
// non-positive integer s come from exact Bernoulli polynomials and the
// derivative comes from differentiating the Euler-Maclaurin formula
// term by term. A numeric central difference is useless here: the
// formula's large leading terms would drown the derivative in roundoff.

// Even Bernoulli numbers B_2..B_30.
var evenBernoulli = []float64{
	1.0 / 6.0,
	-1.0 / 30.0,
	1.0 / 42.0,
	-1.0 / 30.0,
	5.0 / 66.0,
	-691.0 / 2730.0,
	7.0 / 6.0,
	-3617.0 / 510.0,
	43867.0 / 798.0,
	-174611.0 / 330.0,
	854513.0 / 138.0,
	-236364091.0 / 2730.0,
	8553103.0 / 6.0,
	-23749461029.0 / 870.0,
	8615841276005.0 / 14322.0,
}

// emBase is the shift target: the asymptotic tail is evaluated at
// x >= emBase where the Bernoulli series converges comfortably.
const emBase = 30.0

// pochhammer computes s(s+1)...(s+m-1).
func pochhammer(s float64, m int) float64 {
	p := 1.0
	for i := 0; i < m; i++ {
		p *= s + float64(i)
	}
	return p
}

// pochhammerDeriv computes d/ds of the rising factorial as the sum of
// products with one factor removed; this stays finite at the zeros
// where the logarithmic-derivative form blows up.
func pochhammerDeriv(s float64, m int) float64 {
	sum := 0.0
	for i := 0; i < m; i++ {
		p := 1.0
		for j := 0; j < m; j++ {
			if j == i {
				continue
			}
			p *= s + float64(j)
		}
		sum += p
	}
	return sum
}

// hurwitzZeta evaluates the analytic continuation of
// sum_{k>=0} (k+a)^-s at the arguments the tail summation needs:
// s > 1 and non-positive integers down to s = -3. The s = 1 pole is
// the caller's responsibility.
func hurwitzZeta(s, a float64) float64 {
	if s > 1 {
		return mathext.Zeta(s, a)
	}
	// zeta(-n, a) = -B_{n+1}(a)/(n+1) exactly.
	switch s {
	case 0:
		return 0.5 - a
	case -1:
		return -(a*a - a + 1.0/6.0) / 2
	case -2:
		return -(a*a*a - 1.5*a*a + 0.5*a) / 3
	case -3:
		return -(a*a*a*a - 2*a*a*a + a*a - 1.0/30.0) / 4
	}
	return math.NaN()
}

// hurwitzZetaDeriv evaluates d/ds zeta(s, a) via the differentiated
// Euler-Maclaurin expansion. Valid away from the s = 1 pole; used at
// s in [-3, 0] where no closed form exists.
func hurwitzZetaDeriv(s, a float64) float64 {
	// Shift the base upward; each absorbed term contributes
	// d/ds (a+l)^-s = -(a+l)^-s ln(a+l).
	head := 0.0
	x := a
	for x < emBase {
		head -= math.Pow(x, -s) * math.Log(x)
		x++
	}

	lnx := math.Log(x)
	// d/ds [ x^{1-s}/(s-1) ]
	t := math.Pow(x, 1-s)
	d := -t*lnx/(s-1) - t/((s-1)*(s-1))
	// d/ds [ x^-s / 2 ]
	xs := math.Pow(x, -s)
	d -= 0.5 * xs * lnx

	fact := 2.0 // (2j)!
	for j := 1; j <= len(evenBernoulli); j++ {
		if j > 1 {
			fact *= float64(2*j-1) * float64(2*j)
		}
		m := 2*j - 1
		pw := math.Pow(x, -(s + float64(m)))
		c := evenBernoulli[j-1] / fact
		d += c * pw * (pochhammerDeriv(s, m) - pochhammer(s, m)*lnx)
	}
	return head + d
}

// digamma is the finite part assigned to the harmonic-order term of
// the tail, where the Hurwitz zeta hits its s = 1 pole.
func digamma(a float64) float64 {
	return mathext.Digamma(a)
}
