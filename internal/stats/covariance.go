// Package stats quantifies agreement between theory and data:
// covariance construction, chi-squared in diagonal and full-covariance
// modes side by side, Bayes factors against a saturated reference, and
// leave-one-out influence diagnostics.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"physval/internal/observables"
)

// Covariance is a factorized covariance matrix over one correlation
// group's observables, in record order.
type Covariance struct {
	Names  []string
	Ridged bool

	sym  *mat.SymDense
	chol *mat.Cholesky
}

// BuildCovariance assembles the covariance of the given records from
// their total (experimental plus theoretical, in quadrature)
// uncertainties and the group's correlation pairs, then factorizes it.
// A matrix that is not positive definite gets a single ridge attempt of
// ridgeFraction times the mean variance added to the diagonal; if it
// still fails, the error is *SingularMatrix.
func BuildCovariance(records []observables.Record, spec observables.CorrelationSpec, ridgeFraction float64) (*Covariance, error) {
	n := len(records)
	if n == 0 {
		return nil, fmt.Errorf("no records to build covariance over")
	}

	index := make(map[string]int, n)
	names := make([]string, n)
	sigma := make([]float64, n)
	for i, r := range records {
		index[r.Name] = i
		names[i] = r.Name
		sigma[i] = totalSigma(r)
	}

	sym := mat.NewSymDense(n, nil)
	meanVar := 0.0
	for i := range records {
		v := sigma[i] * sigma[i]
		sym.SetSym(i, i, v)
		meanVar += v / float64(n)
	}
	for _, p := range spec.Pairs {
		i, ok := index[p.A]
		if !ok {
			return nil, fmt.Errorf("correlation pair names unknown observable %q", p.A)
		}
		j, ok := index[p.B]
		if !ok {
			return nil, fmt.Errorf("correlation pair names unknown observable %q", p.B)
		}
		sym.SetSym(i, j, p.Rho*sigma[i]*sigma[j])
	}

	c := &Covariance{Names: names, sym: sym, chol: &mat.Cholesky{}}
	if c.chol.Factorize(sym) {
		return c, nil
	}

	// One ridge attempt, then give up.
	ridge := ridgeFraction * meanVar
	for i := 0; i < n; i++ {
		sym.SetSym(i, i, sym.At(i, i)+ridge)
	}
	if c.chol.Factorize(sym) {
		c.Ridged = true
		return c, nil
	}
	return nil, &SingularMatrix{Dim: n, Ridge: ridge}
}

// QuadraticForm computes r^T C^-1 r for the residual vector r.
func (c *Covariance) QuadraticForm(r []float64) float64 {
	rv := mat.NewVecDense(len(r), r)
	var y mat.VecDense
	if err := c.chol.SolveVecTo(&y, rv); err != nil {
		// Factorization succeeded, so the solve cannot fail.
		panic(fmt.Sprintf("covariance solve failed: %v", err))
	}
	return mat.Dot(rv, &y)
}

func totalSigma(r observables.Record) float64 {
	return math.Sqrt(r.ExperimentSigma*r.ExperimentSigma + r.TheorySigma*r.TheorySigma)
}
