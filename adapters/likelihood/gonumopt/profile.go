package gonumopt

import (
	"fmt"
	"math"
	"sync"

	"gowilks/domain/core"
	"gowilks/domain/inference"
	"gowilks/domain/params"
)

// profiledFunc restricts an NLL to the parameters of interest. Each Eval
// fixes the POIs at the requested point and minimizes the NLL over the
// remaining floating parameters; the result is reported relative to a
// lazily cached global minimum. The profiledFunc exclusively owns its NLL.
type profiledFunc struct {
	nll      *nllFunc
	cfg      Config
	poiNames []string
	poiIdx   []int
	// nuisIdx are the floating non-POI parameters; freeIdx are all floating
	// parameters. Constant parameters are never minimized over, a POI held
	// constant is only ever set to the requested evaluation point.
	nuisIdx []int
	freeIdx []int

	once      sync.Once
	globalMin float64
	globalErr error
}

var _ inference.ProfiledFunction = (*profiledFunc)(nil)

func newProfile(nll *nllFunc, poi *params.Set, cfg Config) (*profiledFunc, error) {
	p := &profiledFunc{nll: nll, cfg: cfg}

	inPOI := make(map[int]bool, poi.Len())
	for _, poiPar := range poi.Params() {
		found := -1
		for j, par := range nll.order {
			if par.Name() == poiPar.Name() {
				found = j
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("%w: POI %s not in constrained parameter set", core.ErrParamNotFound, poiPar.Name())
		}
		p.poiNames = append(p.poiNames, poiPar.Name())
		p.poiIdx = append(p.poiIdx, found)
		inPOI[found] = true
	}
	for j, par := range nll.order {
		if par.IsConstant() {
			continue
		}
		if !inPOI[j] {
			p.nuisIdx = append(p.nuisIdx, j)
		}
		p.freeIdx = append(p.freeIdx, j)
	}
	return p, nil
}

// POINames returns the POI names in evaluation order
func (p *profiledFunc) POINames() []string {
	return p.poiNames
}

// Eval computes the profile likelihood ratio at the given POI point
func (p *profiledFunc) Eval(poiValues []float64) (float64, error) {
	if len(poiValues) != len(p.poiIdx) {
		return 0, fmt.Errorf("expected %d POI values, got %d", len(p.poiIdx), len(poiValues))
	}

	min, err := p.globalMinimum()
	if err != nil {
		return 0, err
	}

	cond, err := p.conditionalMinimum(poiValues)
	if err != nil {
		return 0, err
	}

	// Clip below at zero: the conditional minimum cannot sit under the
	// global one except through optimizer noise
	return math.Max(cond-min, 0), nil
}

// conditionalMinimum minimizes the NLL over the nuisance parameters with the
// POIs fixed at the given values
func (p *profiledFunc) conditionalMinimum(poiValues []float64) (float64, error) {
	if len(p.nuisIdx) == 0 {
		return p.nll.evalAt(p.poiIdx, poiValues), nil
	}

	allIdx := make([]int, 0, len(p.poiIdx)+len(p.nuisIdx))
	allIdx = append(allIdx, p.poiIdx...)
	allIdx = append(allIdx, p.nuisIdx...)

	obj := func(xn []float64) float64 {
		x := make([]float64, 0, len(allIdx))
		x = append(x, poiValues...)
		x = append(x, xn...)
		return p.nll.evalAt(allIdx, x)
	}

	result, err := minimizeVec(obj, p.nll.currentValues(p.nuisIdx), p.cfg.FastMaxIterations, p.cfg.FastTolerance)
	if result == nil {
		return 0, fmt.Errorf("profile minimization failed: %w", err)
	}
	if math.IsNaN(result.F) {
		return 0, core.ErrFitNotConverged
	}
	return result.F, nil
}

// globalMinimum lazily minimizes the NLL over every floating parameter,
// starting from their current values. The calculator seeds those at the
// cached best fit, so this converges in a handful of evaluations. With
// nothing floating the NLL is a fixed value.
func (p *profiledFunc) globalMinimum() (float64, error) {
	p.once.Do(func() {
		if len(p.freeIdx) == 0 {
			p.globalMin, p.globalErr = p.nll.Eval()
			return
		}

		obj := func(x []float64) float64 {
			return p.nll.evalAt(p.freeIdx, x)
		}
		result, err := minimizeVec(obj, p.nll.currentValues(p.freeIdx), p.cfg.MaxIterations, p.cfg.Tolerance)
		if result == nil {
			p.globalErr = fmt.Errorf("global minimum search failed: %w", err)
			return
		}
		if math.IsNaN(result.F) {
			p.globalErr = core.ErrFitNotConverged
			return
		}
		p.globalMin = result.F
	})
	return p.globalMin, p.globalErr
}

// Close releases the owned NLL
func (p *profiledFunc) Close() error {
	return p.nll.Close()
}
