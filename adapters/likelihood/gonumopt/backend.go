package gonumopt

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"gowilks/domain/core"
	"gowilks/domain/inference"
	"gowilks/domain/model"
	"gowilks/domain/params"
	"gowilks/ports"
)

// Config tunes the optimizer per strategy
type Config struct {
	// MaxIterations bounds the standard-strategy optimization
	MaxIterations int
	// FastMaxIterations bounds fast-strategy (conditional) fits
	FastMaxIterations int
	// Tolerance is the standard-strategy function convergence threshold
	Tolerance float64
	// FastTolerance is the fast-strategy threshold
	FastTolerance float64
}

// DefaultConfig returns the stock optimizer settings
func DefaultConfig() Config {
	return Config{
		MaxIterations:     2000,
		FastMaxIterations: 500,
		Tolerance:         1e-10,
		FastTolerance:     1e-7,
	}
}

// Backend is a LikelihoodBackend built on gonum's derivative-free
// optimization, with Hessian-based uncertainties from finite differences
type Backend struct {
	cfg Config
}

var _ ports.LikelihoodBackend = (*Backend)(nil)

// New creates a backend with the given optimizer settings
func New(cfg Config) *Backend {
	def := DefaultConfig()
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.FastMaxIterations <= 0 {
		cfg.FastMaxIterations = def.FastMaxIterations
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = def.Tolerance
	}
	if cfg.FastTolerance <= 0 {
		cfg.FastTolerance = def.FastTolerance
	}
	return &Backend{cfg: cfg}
}

// NewDefault creates a backend with default settings
func NewDefault() *Backend {
	return New(DefaultConfig())
}

// ExtractParameters reports the model's parameter dependency set for the
// dataset
func (b *Backend) ExtractParameters(ctx context.Context, m model.Model, data *model.Dataset) (*params.Set, error) {
	if m == nil {
		return nil, core.ErrNoModel
	}
	if data == nil {
		return nil, core.ErrNoData
	}
	return m.Parameters(data)
}

// BuildNLL constructs the negative log-likelihood over the constrained
// parameter set, owning a copy of the dataset values
func (b *Backend) BuildNLL(ctx context.Context, m model.Model, data *model.Dataset, constrained *params.Set) (ports.NLLFunction, error) {
	if m == nil {
		return nil, core.ErrNoModel
	}
	if data == nil {
		return nil, core.ErrNoData
	}
	return newNLL(m, data, constrained), nil
}

// Fit minimizes the NLL over the floating parameters, leaving them and
// their uncertainties at the fitted values
func (b *Backend) Fit(ctx context.Context, m model.Model, data *model.Dataset, floating *params.Set, opts ports.FitOptions) (*inference.FitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, core.ErrNoModel
	}
	if data == nil {
		return nil, core.ErrNoData
	}

	nll := newNLL(m, data, floating)
	defer nll.Close()

	free := floating.Params()
	if len(free) == 0 {
		// Nothing to optimize; the likelihood is a fixed value
		v, err := nll.Eval()
		if err != nil {
			return nil, err
		}
		if !opts.SaveResult {
			return nil, nil
		}
		return inference.NewFitResult(v, nil, true, 1), nil
	}

	idxs := make([]int, len(free))
	for i := range idxs {
		idxs[i] = i
	}
	obj := func(x []float64) float64 {
		return nll.evalAt(idxs, x)
	}

	maxIter, tol := b.cfg.MaxIterations, b.cfg.Tolerance
	if opts.Strategy == ports.StrategyFast {
		maxIter, tol = b.cfg.FastMaxIterations, b.cfg.FastTolerance
	}

	result, err := minimizeVec(obj, floating.Values(), maxIter, tol)
	if err != nil && result == nil {
		return nil, fmt.Errorf("minimization failed: %w", err)
	}
	if result == nil || math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return nil, core.ErrFitNotConverged
	}

	converged := err == nil && statusConverged(result.Status)

	// Leave parameters at the fitted values
	for i, p := range free {
		p.SetValue(result.X[i])
	}

	estimates := make([]inference.ParameterEstimate, len(free))
	for i, p := range free {
		estimates[i] = inference.ParameterEstimate{Name: p.Name(), Value: result.X[i]}
	}

	if opts.ComputeUncertainties {
		uncertainties := b.hessianErrors(obj, result.X)
		for i, p := range free {
			if uncertainties != nil && uncertainties[i] > 0 {
				p.SetError(uncertainties[i])
				estimates[i].Error = uncertainties[i]
			}
		}
	}

	if !opts.SaveResult {
		return nil, nil
	}
	return inference.NewFitResult(result.F, estimates, converged, result.Stats.FuncEvaluations), nil
}

// Profile restricts an NLL to the POI set, taking exclusive ownership of the
// NLL
func (b *Backend) Profile(ctx context.Context, nll ports.NLLFunction, poi *params.Set) (inference.ProfiledFunction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inner, ok := nll.(*nllFunc)
	if !ok {
		return nil, fmt.Errorf("profile requires an NLL built by this backend, got %T", nll)
	}
	return newProfile(inner, poi, b.cfg)
}

// hessianErrors computes parameter uncertainties as the square roots of the
// diagonal of the inverse Hessian at the minimum. Returns nil when the
// Hessian is unusable.
func (b *Backend) hessianErrors(obj func([]float64) float64, x []float64) []float64 {
	n := len(x)
	hess := mat.NewSymDense(n, nil)
	fd.Hessian(hess, obj, x, nil)

	out := make([]float64, n)
	var chol mat.Cholesky
	if chol.Factorize(hess) {
		var cov mat.SymDense
		if err := chol.InverseTo(&cov); err == nil {
			for i := 0; i < n; i++ {
				if v := cov.At(i, i); v > 0 {
					out[i] = math.Sqrt(v)
				}
			}
			return out
		}
	}

	// Non-positive-definite Hessian: fall back to the uncorrelated diagonal
	// approximation
	for i := 0; i < n; i++ {
		if v := hess.At(i, i); v > 0 {
			out[i] = 1 / math.Sqrt(v)
		}
	}
	return out
}

// minimizeVec runs a Nelder-Mead minimization of obj from x0
func minimizeVec(obj func([]float64) float64, x0 []float64, maxIter int, tol float64) (*optimize.Result, error) {
	problem := optimize.Problem{Func: obj}
	settings := &optimize.Settings{
		MajorIterations: maxIter,
		Converger: &optimize.FunctionConverge{
			Absolute:   tol,
			Iterations: 50,
		},
	}
	return optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
}

func statusConverged(s optimize.Status) bool {
	switch s {
	case optimize.Success, optimize.FunctionConvergence, optimize.StepConvergence, optimize.GradientThreshold:
		return true
	default:
		return false
	}
}
