package inference

import (
	"gowilks/domain/core"
)

// HypoTestResult is the outcome of a profile-likelihood-ratio hypothesis
// test. Ownership transfers to the caller.
type HypoTestResult struct {
	ID         core.ResultID `json:"id"`
	NullPValue float64       `json:"null_p_value"`
	TestStat   float64       `json:"test_statistic"`
}

// NewHypoTestResult creates a hypothesis test result from the test statistic
// t = sqrt(2*deltaNLL)
func NewHypoTestResult(testStat float64) *HypoTestResult {
	return &HypoTestResult{
		ID:         core.ResultID(core.NewID()),
		NullPValue: SignificanceToPValue(testStat),
		TestStat:   testStat,
	}
}

// PValue returns the one-sided p-value for the null hypothesis
func (r *HypoTestResult) PValue() float64 {
	return r.NullPValue
}

// Significance returns the p-value expressed as normal-equivalent sigmas
func (r *HypoTestResult) Significance() float64 {
	return PValueToSignificance(r.NullPValue)
}
