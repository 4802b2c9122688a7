package stats

import "math"

// Bayes factor of the axiomatic model against a saturated reference
// that fits every observable exactly at the cost of one free parameter
// per data point. The reference's likelihood advantage (chi-squared of
// zero) is taxed by an Occam prior-volume penalty per parameter, in
// decades; the axiomatic model has no free parameters.

// BayesResult is the model comparison outcome.
type BayesResult struct {
	LogLikelihood  float64
	Log10Factor    float64
	Interpretation string
}

// Evidence grading on the decimal Jeffreys scale.
const (
	interpretationStrong   = "strong support"
	interpretationModerate = "moderate support"
	interpretationWeak     = "weak or inconclusive"
	interpretationAgainst  = "evidence against"
)

// BayesFactor compares a model with the given chi-squared and zero free
// parameters against the k-parameter saturated reference.
// occamLog10PerParam is the log10 prior weight credited to the reference
// per parameter; a negative value (the default is -1, one decade per
// parameter) penalizes the reference and so raises the factor.
func BayesFactor(chiSquared float64, k int, occamLog10PerParam float64) BayesResult {
	logL := -chiSquared / 2
	log10B := logL/math.Ln10 - float64(k)*occamLog10PerParam

	res := BayesResult{
		LogLikelihood: logL,
		Log10Factor:   log10B,
	}
	switch {
	case log10B > 5:
		res.Interpretation = interpretationStrong
	case log10B > 2:
		res.Interpretation = interpretationModerate
	case log10B > 0:
		res.Interpretation = interpretationWeak
	default:
		res.Interpretation = interpretationAgainst
	}
	return res
}
