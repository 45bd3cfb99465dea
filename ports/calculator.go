package ports

import (
	"context"

	"gowilks/domain/inference"
)

// IntervalCalculator produces confidence regions for the configured
// parameters of interest
type IntervalCalculator interface {
	// GetInterval builds a confidence region at level 1 - size. Ownership of
	// the interval transfers to the caller.
	GetInterval(ctx context.Context) (*inference.ConfidenceInterval, error)
}

// HypoTestCalculator produces p-values for the configured null hypothesis
type HypoTestCalculator interface {
	// GetHypoTest compares the unconstrained fit against a fit with the null
	// parameters fixed. Ownership of the result transfers to the caller.
	GetHypoTest(ctx context.Context) (*inference.HypoTestResult, error)
}

// CombinedCalculator is a calculator able to produce both results from one
// configuration. Reset discards cached fit state; the configuration layer
// must call it whenever model, data or parameter roles change.
type CombinedCalculator interface {
	IntervalCalculator
	HypoTestCalculator

	Reset()
}
