package app

import (
	"context"
	"log"
	"math"
	"sync"

	"gowilks/domain/core"
	"gowilks/domain/inference"
	"gowilks/domain/model"
	"gowilks/domain/params"
	"gowilks/ports"
)

// CalculatorConfig carries the inputs of a calculator: the model, the
// observed dataset, the parameters of interest, an optional set of
// null-hypothesis parameters with target values, and the test size
type CalculatorConfig struct {
	Model model.Model
	Data  *model.Dataset
	POI   *params.Set

	// NullParams are detached parameters whose values are the null targets;
	// the calculator matches them to model parameters by name
	NullParams *params.Set

	// Size is the test size; confidence level is 1 - Size. Defaults to 0.05.
	Size float64
}

// ProfileLikelihoodCalculator produces profile-likelihood confidence
// intervals and Wilks'-theorem hypothesis tests from one configuration. It
// caches the unconstrained maximum-likelihood fit so repeated queries run
// one optimization; any configuration change invalidates the cache.
//
// A mutex spans each public operation: the cached fit and the temporary
// null-parameter mutation are shared state that must never be observed
// half-written.
type ProfileLikelihoodCalculator struct {
	mu      sync.Mutex
	backend ports.LikelihoodBackend

	model      model.Model
	data       *model.Dataset
	poi        *params.Set
	nullParams *params.Set
	size       float64

	// fit is the cached unconstrained MLE result; nil means empty
	fit *inference.FitResult
}

var _ ports.CombinedCalculator = (*ProfileLikelihoodCalculator)(nil)

// NewProfileLikelihoodCalculator creates a calculator over the given
// likelihood backend
func NewProfileLikelihoodCalculator(backend ports.LikelihoodBackend, cfg CalculatorConfig) *ProfileLikelihoodCalculator {
	size := cfg.Size
	if size <= 0 || size >= 1 {
		size = 0.05
	}
	return &ProfileLikelihoodCalculator{
		backend:    backend,
		model:      cfg.Model,
		data:       cfg.Data,
		poi:        cfg.POI,
		nullParams: cfg.NullParams,
		size:       size,
	}
}

// Reset discards the cached fit result
func (c *ProfileLikelihoodCalculator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fit = nil
}

// SetModel replaces the model and invalidates the cached fit
func (c *ProfileLikelihoodCalculator) SetModel(m model.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = m
	c.fit = nil
}

// SetData replaces the dataset and invalidates the cached fit
func (c *ProfileLikelihoodCalculator) SetData(d *model.Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = d
	c.fit = nil
}

// SetPOI replaces the parameters of interest and invalidates the cached fit
func (c *ProfileLikelihoodCalculator) SetPOI(poi *params.Set) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.poi = poi
	c.fit = nil
}

// SetNullParameters replaces the null-hypothesis set and invalidates the
// cached fit
func (c *ProfileLikelihoodCalculator) SetNullParameters(nullParams *params.Set) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nullParams = nullParams
	c.fit = nil
}

// SetTestSize replaces the test size; out-of-range values are ignored
func (c *ProfileLikelihoodCalculator) SetTestSize(size float64) {
	if size <= 0 || size >= 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.size = size
	c.fit = nil
}

// FitResult returns the cached unconstrained fit, or nil when the cache is
// empty
func (c *ProfileLikelihoodCalculator) FitResult() *inference.FitResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fit
}

// floatingParameters partitions the model's dependency set for the dataset
// into the subset free to float, removing every constant-flagged parameter
func (c *ProfileLikelihoodCalculator) floatingParameters(ctx context.Context) (*params.Set, error) {
	full, err := c.backend.ExtractParameters(ctx, c.model, c.data)
	if err != nil {
		return nil, err
	}
	if full.Len() == 0 {
		return nil, core.ErrNoParameters
	}
	floating := full.Floating()
	if floating.Len() == 0 {
		return nil, core.ErrAllConstant
	}
	return floating, nil
}

// ensureFit returns the cached unconstrained fit, running the global fit on
// a cache miss. The global fit uses the standard strategy with
// Hessian-based uncertainties and a saved result.
func (c *ProfileLikelihoodCalculator) ensureFit(ctx context.Context) (*inference.FitResult, error) {
	if c.fit != nil {
		return c.fit, nil
	}
	if c.model == nil {
		return nil, core.ErrNoModel
	}
	if c.data == nil {
		return nil, core.ErrNoData
	}

	floating, err := c.floatingParameters(ctx)
	if err != nil {
		return nil, err
	}

	fit, err := c.backend.Fit(ctx, c.model, c.data, floating, ports.FitOptions{
		Strategy:             ports.StrategyStandard,
		ComputeUncertainties: true,
		SaveResult:           true,
	})
	if err != nil {
		return nil, core.NewFitError("global", err)
	}
	if fit == nil || !fit.Converged {
		return nil, core.ErrFitNotConverged
	}
	log.Printf("[Calculator] global fit: minNLL=%.6g over %d floating parameters", fit.MinNLL, len(fit.FloatParams))

	c.fit = fit
	return fit, nil
}

// GetInterval builds a profile-likelihood confidence region for the
// parameters of interest at level 1 - size
func (c *ProfileLikelihoodCalculator) GetInterval(ctx context.Context) (*inference.ConfidenceInterval, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.model == nil {
		return nil, core.ErrNoModel
	}
	if c.data == nil {
		return nil, core.ErrNoData
	}
	if c.poi.Len() == 0 {
		return nil, core.ErrNoPOI
	}

	fit, err := c.ensureFit(ctx)
	if err != nil {
		return nil, err
	}

	full, err := c.backend.ExtractParameters(ctx, c.model, c.data)
	if err != nil {
		return nil, err
	}

	// The NLL spans the floating set plus any POI held constant, so a fixed
	// POI stays profilable at its configured value
	constrained := full.Floating()
	for _, p := range c.poi.Params() {
		if constrained.Find(p.Name()) != nil {
			continue
		}
		mp := full.Find(p.Name())
		if mp == nil {
			return nil, core.NewParamNotFoundError(p.Name())
		}
		if err := constrained.Add(mp); err != nil {
			return nil, err
		}
	}

	nll, err := c.backend.BuildNLL(ctx, c.model, c.data, constrained)
	if err != nil {
		return nil, err
	}
	profile, err := c.backend.Profile(ctx, nll, c.poi)
	if err != nil {
		nll.Close()
		return nil, err
	}

	// Seed each POI at its fitted value so the profile caches the global
	// minimum cheaply, and collect the best-fit POI set. A POI held constant
	// is absent from the fit and keeps its configured value.
	best := make([]inference.ParameterEstimate, 0, c.poi.Len())
	for _, p := range c.poi.Params() {
		if e, ok := fit.Find(p.Name()); ok {
			p.SetValue(e.Value)
			p.SetError(e.Error)
			best = append(best, e)
		} else {
			best = append(best, inference.ParameterEstimate{Name: p.Name(), Value: p.Value(), Error: p.Error()})
		}
	}

	point := make([]float64, len(best))
	for i, e := range best {
		point[i] = e.Value
	}
	if _, err := profile.Eval(point); err != nil {
		profile.Close()
		return nil, err
	}

	interval, err := inference.NewConfidenceInterval(profile, best, 1-c.size)
	if err != nil {
		profile.Close()
		return nil, err
	}
	return interval, nil
}

// GetHypoTest compares the unconstrained fit against a conditional fit with
// the null parameters fixed at their target values, converting the
// likelihood ratio into a one-sided p-value via Wilks' theorem
func (c *ProfileLikelihoodCalculator) GetHypoTest(ctx context.Context) (*inference.HypoTestResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.model == nil {
		return nil, core.ErrNoModel
	}
	if c.data == nil {
		return nil, core.ErrNoData
	}
	if c.nullParams.Len() == 0 {
		return nil, core.ErrNoNullParams
	}

	fit, err := c.ensureFit(ctx)
	if err != nil {
		return nil, err
	}
	nllMLE := fit.MinNLL

	floating, err := c.floatingParameters(ctx)
	if err != nil {
		return nil, err
	}

	// Fix each null parameter at its target value. Only parameters present
	// in the floating set are touched; an already-constant parameter keeps
	// its state. The snapshot restores value and flag on every exit path.
	targets, err := params.NewSet()
	if err != nil {
		return nil, err
	}
	for _, np := range c.nullParams.Params() {
		if mp := floating.Find(np.Name()); mp != nil {
			if err := targets.Add(mp); err != nil {
				return nil, err
			}
		}
	}
	snap := params.Capture(targets)
	defer snap.Restore()

	for _, np := range c.nullParams.Params() {
		if mp := targets.Find(np.Name()); mp != nil {
			mp.SetValue(np.Value())
			mp.SetConstant(true)
		}
	}

	// Nuisance parameters are whatever remains floating after the fix
	nuisance := floating.Floating()

	var nllCond float64
	if nuisance.Len() > 0 {
		condFit, err := c.backend.Fit(ctx, c.model, c.data, nuisance, ports.FitOptions{
			Strategy:             ports.StrategyFast,
			ComputeUncertainties: false,
			SaveResult:           true,
		})
		if err != nil {
			return nil, core.NewFitError("conditional", err)
		}
		if condFit == nil {
			return nil, core.ErrFitNotConverged
		}
		if !condFit.Converged {
			// Convergence of the conditional fit is not fatal; the reported
			// minimum is used as-is, which can only weaken the test.
			log.Printf("[Calculator] conditional fit did not converge, using minNLL=%.6g as-is", condFit.MinNLL)
		}
		nllCond = condFit.MinNLL
	} else {
		// Nothing left to optimize: the likelihood is a fixed value at the
		// current parameter point
		nll, err := c.backend.BuildNLL(ctx, c.model, c.data, floating)
		if err != nil {
			return nil, err
		}
		nllCond, err = nll.Eval()
		nll.Close()
		if err != nil {
			return nil, err
		}
	}

	// Optimizer imprecision can land the conditional minimum slightly below
	// the unconstrained one; physically impossible, so clip at zero
	deltaNLL := math.Max(nllCond-nllMLE, 0)
	t := math.Sqrt(2 * deltaNLL)

	return inference.NewHypoTestResult(t), nil
}
