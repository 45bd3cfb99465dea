package ports

import (
	"context"

	"gowilks/domain/inference"
	"gowilks/domain/model"
	"gowilks/domain/params"
)

// FitStrategy selects the cost/precision trade-off of an optimization
type FitStrategy int

const (
	// StrategyStandard is the full-precision strategy used for the global
	// fit: tight convergence, Hessian-based uncertainties
	StrategyStandard FitStrategy = iota

	// StrategyFast is the lighter strategy used for conditional fits: looser
	// convergence, no Hessian
	StrategyFast
)

// FitOptions configure a single optimization run
type FitOptions struct {
	Strategy             FitStrategy
	ComputeUncertainties bool
	SaveResult           bool
}

// NLLFunction is a constructed negative log-likelihood. It owns any internal
// data copy; Close releases it. Eval computes the NLL at the parameters'
// current values.
type NLLFunction interface {
	Eval() (float64, error)
	Close() error
}

// LikelihoodBackend is the numerical collaborator the calculator drives: it
// extracts parameter dependency sets, runs fits, and constructs NLL and
// profiled-NLL functions. All calls are blocking.
type LikelihoodBackend interface {
	// ExtractParameters reports the model's parameter dependency set for a
	// dataset, constants included
	ExtractParameters(ctx context.Context, m model.Model, data *model.Dataset) (*params.Set, error)

	// Fit minimizes the NLL over the floating parameters, leaving them at
	// their fitted values. The returned result is nil when SaveResult is
	// unset.
	Fit(ctx context.Context, m model.Model, data *model.Dataset, floating *params.Set, opts FitOptions) (*inference.FitResult, error)

	// BuildNLL constructs the negative log-likelihood over the constrained
	// parameter set, owning an internal copy of the dataset values
	BuildNLL(ctx context.Context, m model.Model, data *model.Dataset, constrained *params.Set) (NLLFunction, error)

	// Profile restricts an NLL to the parameters of interest, profiling out
	// the remaining floating parameters at each evaluation. The profiled
	// function takes exclusive ownership of the NLL.
	Profile(ctx context.Context, nll NLLFunction, poi *params.Set) (inference.ProfiledFunction, error)
}
