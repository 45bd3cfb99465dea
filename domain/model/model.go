package model

import (
	"gowilks/domain/params"
)

// Model is a probability density over a single observable, parameterized by
// shared Parameter instances. Evaluations read the parameters' current
// values, so a fit drives the model by mutating its parameters.
type Model interface {
	// Name returns the model name
	Name() string

	// Parameters reports the full parameter dependency set of the model for
	// the given dataset, constants included
	Parameters(data *Dataset) (*params.Set, error)

	// LogPdf evaluates the log density at a single observation under the
	// parameters' current values
	LogPdf(x float64) float64
}

// Constrained is implemented by models carrying an external constraint term
// (a prior density over parameters). The term enters the likelihood once per
// dataset, not once per observation.
type Constrained interface {
	Model

	// ConstraintLogPdf evaluates the log of the constraint density at the
	// parameters' current values
	ConstraintLogPdf() float64
}
