// Package propagate pushes input measurement uncertainty through
// derived formulas. Two modes are supported: local-linear propagation
// via central finite differences, for functions well approximated
// linearly over the input uncertainty scale, and sampling-based
// propagation for functions where the linear picture is unreliable.
// Callers state per derived output which mode applies.
package propagate

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Input is one uncertain argument of a derived formula.
type Input struct {
	Name  string
	Value float64
	Sigma float64
}

// Partial records one input's contribution to a linear propagation.
type Partial struct {
	Name       string
	Derivative float64
	// Contribution is (derivative * sigma)^2, the input's share of the
	// output variance.
	Contribution float64
}

// LinearResult is the outcome of local-linear propagation.
type LinearResult struct {
	Value    float64
	Sigma    float64
	Partials []Partial
}

// SampleResult is the outcome of sampling-based propagation.
type SampleResult struct {
	Value float64
	Sigma float64
	Count int
}

// Linear propagates uncertainties to first order. Partial derivatives
// are taken by central differences with steps tied to each input's own
// uncertainty scale, so the slope is measured over the region the
// uncertainty actually explores.
func Linear(f func([]float64) float64, inputs []Input) (*LinearResult, error) {
	if err := validate(inputs); err != nil {
		return nil, err
	}

	x := values(inputs)
	res := &LinearResult{
		Value:    f(x),
		Partials: make([]Partial, len(inputs)),
	}

	variance := 0.0
	for i, in := range inputs {
		h := in.Sigma / 2
		if h == 0 {
			h = 1e-8 * math.Max(math.Abs(in.Value), 1)
		}
		hi := append([]float64(nil), x...)
		lo := append([]float64(nil), x...)
		hi[i] += h
		lo[i] -= h
		d := (f(hi) - f(lo)) / (2 * h)

		contrib := d * in.Sigma * d * in.Sigma
		res.Partials[i] = Partial{Name: in.Name, Derivative: d, Contribution: contrib}
		variance += contrib
	}
	res.Sigma = math.Sqrt(variance)
	return res, nil
}

// Sample propagates uncertainties by repeated evaluation under
// Gaussian-perturbed inputs. The seed fixes the draw sequence, so equal
// seeds give bit-identical results.
func Sample(f func([]float64) float64, inputs []Input, seed uint64, count int) (*SampleResult, error) {
	if err := validate(inputs); err != nil {
		return nil, err
	}
	if count < 2 {
		return nil, fmt.Errorf("invalid sample count: need at least 2 draws, got %d", count)
	}

	src := rand.NewSource(seed)
	dists := make([]distuv.Normal, len(inputs))
	for i, in := range inputs {
		dists[i] = distuv.Normal{Mu: in.Value, Sigma: in.Sigma, Src: src}
	}

	draws := make([]float64, count)
	x := make([]float64, len(inputs))
	for n := 0; n < count; n++ {
		for i := range dists {
			if inputs[i].Sigma == 0 {
				x[i] = inputs[i].Value
				continue
			}
			x[i] = dists[i].Rand()
		}
		draws[n] = f(x)
	}

	return &SampleResult{
		Value: stat.Mean(draws, nil),
		Sigma: stat.StdDev(draws, nil),
		Count: count,
	}, nil
}

// NegligibleRatio is the conventional threshold below which theoretical
// uncertainty may be ignored in significance tests.
const NegligibleRatio = 0.1

// UncertaintyRatio returns sigma_theory / sigma_experiment, telling
// callers whether theoretical error must be folded into significance
// tests or can be neglected.
func UncertaintyRatio(theorySigma, experimentSigma float64) (float64, error) {
	if experimentSigma <= 0 {
		return 0, fmt.Errorf("invalid experimental uncertainty: must be positive, got %g", experimentSigma)
	}
	return theorySigma / experimentSigma, nil
}

func validate(inputs []Input) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no inputs to propagate")
	}
	for _, in := range inputs {
		if in.Sigma < 0 {
			return fmt.Errorf("invalid uncertainty for %q: sigma must be non-negative, got %g", in.Name, in.Sigma)
		}
	}
	return nil
}

func values(inputs []Input) []float64 {
	x := make([]float64, len(inputs))
	for i, in := range inputs {
		x[i] = in.Value
	}
	return x
}
