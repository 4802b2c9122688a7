// Package anchor performs the exhaustive integer-triplet search that
// ties the neutrino mass family m_i = n_i^2 * s to the measured
// atmospheric splitting. The space {n1<n2<n3} within 1..NMax is small
// and fully enumerable; brute force over all of it is the intended
// design, and completeness over the declared space is a hard contract.
package anchor

import (
	"fmt"
	"math"
	"math/big"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Measurement is an experimental value with a one-sigma uncertainty.
type Measurement struct {
	Value float64
	Sigma float64
}

// Config bounds the enumeration and the cosmology penalty.
type Config struct {
	// NMax bounds the triplet space; NMax = 10 yields 120 candidates.
	NMax int
	// SumMassBound is the cosmological limit on sum(m_i) in eV.
	SumMassBound float64
	// PenaltySigma converts an excess over the bound into chi-squared.
	PenaltySigma float64
}

// Candidate is one scored triplet.
type Candidate struct {
	N1, N2, N3 int

	// Scale is s in m_i = n_i^2 * s, fixed by the anchor splitting.
	Scale float64
	// PredictedSolar is the implied m2^2 - m1^2.
	PredictedSolar float64
	// MassSum is m1 + m2 + m3.
	MassSum float64
	// ChiSquared scores the solar splitting plus any cosmology penalty.
	ChiSquared float64
}

// Masses returns the mass family implied by the candidate.
func (c Candidate) Masses() [3]float64 {
	return [3]float64{
		float64(c.N1*c.N1) * c.Scale,
		float64(c.N2*c.N2) * c.Scale,
		float64(c.N3*c.N3) * c.Scale,
	}
}

// SplittingRatio returns the exact rational
// (n2^4 - n1^4) / (n3^4 - n1^4), the solar-to-atmospheric splitting
// ratio implied by the quantization pattern alone.
func (c Candidate) SplittingRatio() *big.Rat {
	return big.NewRat(pow4(c.N2)-pow4(c.N1), pow4(c.N3)-pow4(c.N1))
}

func pow4(n int) int64 {
	m := int64(n)
	return m * m * m * m
}

// Ranking is the complete scored space in ascending chi-squared order,
// ties broken by lexicographically smallest triplet.
type Ranking struct {
	Candidates []Candidate
	Best       Candidate
}

// Search enumerates and scores every admissible triplet against the
// anchor (atmospheric) and solar splittings. Scoring is fanned out
// across index-addressed slice slots, so the result is deterministic
// regardless of scheduling.
func Search(cfg Config, atmospheric, solar Measurement) (*Ranking, error) {
	if cfg.NMax < 3 {
		return nil, fmt.Errorf("invalid search bound: n_max must be >= 3 to admit a triplet, got %d", cfg.NMax)
	}
	if atmospheric.Value <= 0 || atmospheric.Sigma <= 0 {
		return nil, fmt.Errorf("invalid anchor measurement: value and sigma must be positive")
	}
	if solar.Sigma <= 0 {
		return nil, fmt.Errorf("invalid solar measurement: sigma must be positive")
	}

	var triplets [][3]int
	for n1 := 1; n1 <= cfg.NMax-2; n1++ {
		for n2 := n1 + 1; n2 <= cfg.NMax-1; n2++ {
			for n3 := n2 + 1; n3 <= cfg.NMax; n3++ {
				triplets = append(triplets, [3]int{n1, n2, n3})
			}
		}
	}

	candidates := make([]Candidate, len(triplets))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range triplets {
		i := i
		g.Go(func() error {
			candidates[i] = score(cfg, triplets[i], atmospheric, solar)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.ChiSquared != b.ChiSquared {
			return a.ChiSquared < b.ChiSquared
		}
		if a.N1 != b.N1 {
			return a.N1 < b.N1
		}
		if a.N2 != b.N2 {
			return a.N2 < b.N2
		}
		return a.N3 < b.N3
	})

	return &Ranking{Candidates: candidates, Best: candidates[0]}, nil
}

func score(cfg Config, t [3]int, atmospheric, solar Measurement) Candidate {
	span := float64(pow4(t[2]) - pow4(t[0]))
	scaleSq := atmospheric.Value / span
	c := Candidate{
		N1:             t[0],
		N2:             t[1],
		N3:             t[2],
		Scale:          math.Sqrt(scaleSq),
		PredictedSolar: float64(pow4(t[1])-pow4(t[0])) * scaleSq,
	}
	m := c.Masses()
	c.MassSum = m[0] + m[1] + m[2]

	pull := (c.PredictedSolar - solar.Value) / solar.Sigma
	c.ChiSquared = pull * pull
	if c.MassSum > cfg.SumMassBound {
		excess := (c.MassSum - cfg.SumMassBound) / cfg.PenaltySigma
		c.ChiSquared += excess * excess
	}
	return c
}
