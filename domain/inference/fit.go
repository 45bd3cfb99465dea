package inference

import (
	"gowilks/domain/core"
)

// ParameterEstimate is the fitted value and uncertainty of one floating
// parameter
type ParameterEstimate struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Error float64 `json:"error"`
}

// FitResult is an immutable snapshot of a completed optimization. The global
// fit cache owns at most one at a time; it is discarded on any configuration
// change.
type FitResult struct {
	ID          core.FitID          `json:"id"`
	MinNLL      float64             `json:"min_nll"`
	FloatParams []ParameterEstimate `json:"float_params"`
	Converged   bool                `json:"converged"`
	Evaluations int                 `json:"evaluations"`
}

// NewFitResult creates a fit result snapshot
func NewFitResult(minNLL float64, floatParams []ParameterEstimate, converged bool, evaluations int) *FitResult {
	return &FitResult{
		ID:          core.FitID(core.NewID()),
		MinNLL:      minNLL,
		FloatParams: floatParams,
		Converged:   converged,
		Evaluations: evaluations,
	}
}

// Find returns the estimate for the named floating parameter
func (r *FitResult) Find(name string) (ParameterEstimate, bool) {
	for _, e := range r.FloatParams {
		if e.Name == name {
			return e, true
		}
	}
	return ParameterEstimate{}, false
}
