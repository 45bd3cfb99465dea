package inference

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// SignificanceToPValue converts a normal-equivalent significance z into the
// one-sided upper-tail probability beyond z
func SignificanceToPValue(z float64) float64 {
	return stdNormal.Survival(z)
}

// PValueToSignificance converts a one-sided p-value into the equivalent
// number of normal sigmas
func PValueToSignificance(p float64) float64 {
	if p <= 0 {
		return math.Inf(1)
	}
	if p >= 1 {
		return math.Inf(-1)
	}
	return stdNormal.Quantile(1 - p)
}

// DeltaNLLThreshold returns the profile likelihood ratio value at the edge
// of a confidence region with the given level and number of parameters of
// interest, half the chi-squared quantile per Wilks' theorem
func DeltaNLLThreshold(confidenceLevel float64, nPOI int) float64 {
	if nPOI < 1 {
		nPOI = 1
	}
	chi2 := distuv.ChiSquared{K: float64(nPOI)}
	return 0.5 * chi2.Quantile(confidenceLevel)
}
