package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors: the calculator is missing a required input.
	// These surface as "no result produced" rather than a crash.
	ErrNoModel      = errors.New("no model configured")
	ErrNoData       = errors.New("no dataset configured")
	ErrNoPOI        = errors.New("no parameters of interest configured")
	ErrNoNullParams = errors.New("no null-hypothesis parameters configured")

	// Parameter errors
	ErrNoParameters   = errors.New("model has no extractable parameters for dataset")
	ErrParamNotFound  = errors.New("parameter not found")
	ErrAllConstant    = errors.New("all parameters are held constant")
	ErrDuplicateParam = errors.New("duplicate parameter name")

	// Fit errors
	ErrFitNotConverged = errors.New("fit did not converge to a savable result")
	ErrUnavailable     = errors.New("result unavailable")
)

// Error constructors with context
func NewFitError(stage string, err error) error {
	return fmt.Errorf("%w: %s fit: %v", ErrFitNotConverged, stage, err)
}

func NewParamNotFoundError(name string) error {
	return fmt.Errorf("%w: %s", ErrParamNotFound, name)
}

// Error checking helpers
func IsConfigError(err error) bool {
	return errors.Is(err, ErrNoModel) ||
		errors.Is(err, ErrNoData) ||
		errors.Is(err, ErrNoPOI) ||
		errors.Is(err, ErrNoNullParams)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrFitNotConverged) ||
		errors.Is(err, ErrNoParameters) ||
		errors.Is(err, ErrAllConstant) ||
		IsConfigError(err)
}
