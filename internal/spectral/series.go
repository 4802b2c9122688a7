package spectral

import "math"

// Large-l asymptotics of the combined integrand. With u = 1/l and
// x = 3u + c u^2,
//
//	ln lambda_l = 2 ln l + ln(1+x) = 2 ln l + sum_{n>=1} (-1)^{n+1} x^n / n
//
// so t_l expands into terms A_p l^p ln l and B_p l^p. The series is
// truncated at x^order; the analytic tail sums the truncated expansion
// from the split point to infinity via Hurwitz zeta values, and the
// residual per mode is the exact remainder of the ln(1+x) series, never
// the difference of two near-equal logarithms.
type asymSeries struct {
	sectors []Sector
	order   int

	// logCoeff[p] multiplies l^p ln l.
	logCoeff [4]float64
	// polyCoeff[i] multiplies l^(minPower+i).
	polyCoeff []float64
	minPower  int
}

func newAsymSeries(sectors []Sector, order int) *asymSeries {
	a := &asymSeries{
		sectors:  sectors,
		order:    order,
		minPower: -2 * order,
	}
	a.polyCoeff = make([]float64, 3-a.minPower) // powers minPower..2

	for _, s := range sectors {
		for p := 0; p < 4; p++ {
			a.logCoeff[p] += s.Weight * 2 * s.Deg[p]
		}
		// (3u + c u^2)^n = sum_k C(n,k) 3^(n-k) c^k u^(n+k)
		for n := 1; n <= order; n++ {
			sign := 1.0
			if n%2 == 0 {
				sign = -1.0
			}
			for k := 0; k <= n; k++ {
				c := sign / float64(n) * binomial(n, k) *
					math.Pow(3, float64(n-k)) * math.Pow(s.Shift, float64(k))
				for p := 0; p < 4; p++ {
					power := p - (n + k)
					if power > 2 || power < a.minPower {
						continue
					}
					a.polyCoeff[power-a.minPower] += s.Weight * s.Deg[p] * c
				}
			}
		}
	}
	return a
}

func binomial(n, k int) float64 {
	if k > n-k {
		k = n - k
	}
	b := 1.0
	for i := 0; i < k; i++ {
		b = b * float64(n-i) / float64(i+1)
	}
	return b
}

// residual returns t_l minus the truncated expansion, computed as the
// convergent tail of the ln(1+x) series weighted by each sector's
// degeneracy. |x| < 1 for every l >= 5 (the floor the regularizer
// enforces on the split), so the tail converges; it is summed until the
// terms fall below working precision.
func (a *asymSeries) residual(l float64) float64 {
	u := 1 / l
	r := 0.0
	for _, s := range a.sectors {
		x := u * (3 + s.Shift*u)
		xp := math.Pow(x, float64(a.order+1))
		sign := 1.0
		if a.order%2 == 1 {
			sign = -1.0
		}
		tail := 0.0
		for n := a.order + 1; n <= a.order+200; n++ {
			term := sign * xp / float64(n)
			tail += term
			if math.Abs(term) < 1e-25*math.Max(math.Abs(tail), 1e-30) {
				break
			}
			xp *= x
			sign = -sign
		}
		r += s.Weight * s.Degeneracy(l) * tail
	}
	return r
}

// analyticTail sums the truncated expansion from l = from to infinity:
// sum l^p = zeta(-p, from) and sum l^p ln l = -d/ds zeta(s, from) at
// s = -p. The p = -1 polynomial term meets the s = 1 pole of the
// Hurwitz zeta; its finite part under this subtraction scheme is
// -psi(from), which keeps the total independent of the split point.
func (a *asymSeries) analyticTail(from float64) float64 {
	total := 0.0
	for p := 3; p >= 0; p-- {
		if c := a.logCoeff[p]; c != 0 {
			total += c * -hurwitzZetaDeriv(float64(-p), from)
		}
	}
	for power := 2; power >= a.minPower; power-- {
		c := a.polyCoeff[power-a.minPower]
		if c == 0 {
			continue
		}
		if power == -1 {
			total += c * -digamma(from)
			continue
		}
		total += c * hurwitzZeta(float64(-power), from)
	}
	return total
}
