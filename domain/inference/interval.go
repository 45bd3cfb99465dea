package inference

import (
	"fmt"
	"math"

	"gowilks/domain/core"
)

// ConfidenceInterval is a profile-likelihood confidence region over the
// parameters of interest. It wraps the profiled function, the best-fit POI
// values and a confidence level; edge finding runs lazily when bounds are
// queried. Ownership transfers to the caller, who must Close it.
type ConfidenceInterval struct {
	profile ProfiledFunction
	bestFit []ParameterEstimate
	level   float64
}

// NewConfidenceInterval wraps a profiled function and the best-fit POI set
// at the given confidence level in (0,1)
func NewConfidenceInterval(profile ProfiledFunction, bestFit []ParameterEstimate, level float64) (*ConfidenceInterval, error) {
	if level <= 0 || level >= 1 {
		return nil, fmt.Errorf("confidence level %g outside (0,1)", level)
	}
	return &ConfidenceInterval{profile: profile, bestFit: bestFit, level: level}, nil
}

// ConfidenceLevel returns the configured confidence level
func (ci *ConfidenceInterval) ConfidenceLevel() float64 {
	return ci.level
}

// BestFit returns the best-fit estimate for the named POI
func (ci *ConfidenceInterval) BestFit(name string) (ParameterEstimate, bool) {
	for _, e := range ci.bestFit {
		if e.Name == name {
			return e, true
		}
	}
	return ParameterEstimate{}, false
}

// BestFitValues returns all best-fit POI estimates
func (ci *ConfidenceInterval) BestFitValues() []ParameterEstimate {
	return ci.bestFit
}

// POINames returns the parameter-of-interest names in evaluation order
func (ci *ConfidenceInterval) POINames() []string {
	return ci.profile.POINames()
}

// ProfileAt evaluates the profile likelihood ratio at the given POI point,
// ordered as POINames
func (ci *ConfidenceInterval) ProfileAt(poiValues []float64) (float64, error) {
	return ci.profile.Eval(poiValues)
}

// Contains reports whether the given POI point, ordered as the profile's
// POINames, lies inside the confidence region
func (ci *ConfidenceInterval) Contains(poiValues []float64) (bool, error) {
	ratio, err := ci.profile.Eval(poiValues)
	if err != nil {
		return false, err
	}
	return ratio <= ci.threshold(), nil
}

// Bounds finds the lower and upper edge of the region for one POI, holding
// any other POIs at their best-fit values. Edges are located by stepping
// outward from the best fit until the profile crosses the threshold, then
// bisecting.
func (ci *ConfidenceInterval) Bounds(name string) (lo, hi float64, err error) {
	idx := -1
	names := ci.profile.POINames()
	for i, n := range names {
		if n == name {
			idx = i
		}
	}
	if idx < 0 {
		return 0, 0, core.NewParamNotFoundError(name)
	}

	point := make([]float64, len(names))
	var center ParameterEstimate
	for i, n := range names {
		e, ok := ci.BestFit(n)
		if !ok {
			return 0, 0, core.NewParamNotFoundError(n)
		}
		point[i] = e.Value
		if i == idx {
			center = e
		}
	}

	step := center.Error
	if step <= 0 {
		step = 0.1*math.Abs(center.Value) + 1
	}

	lo, err = ci.findEdge(point, idx, center.Value, -step)
	if err != nil {
		return 0, 0, err
	}
	hi, err = ci.findEdge(point, idx, center.Value, step)
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

func (ci *ConfidenceInterval) threshold() float64 {
	return DeltaNLLThreshold(ci.level, len(ci.profile.POINames()))
}

// findEdge brackets the threshold crossing in the direction of step, then
// bisects to the edge
func (ci *ConfidenceInterval) findEdge(point []float64, idx int, center, step float64) (float64, error) {
	threshold := ci.threshold()
	probe := make([]float64, len(point))
	copy(probe, point)

	inside := center
	var outside float64
	found := false
	for i := 0; i < 64; i++ {
		x := center + step*math.Pow(2, float64(i))
		probe[idx] = x
		ratio, err := ci.profile.Eval(probe)
		if err != nil {
			return 0, err
		}
		if ratio >= threshold {
			outside = x
			found = true
			break
		}
		inside = x
	}
	if !found {
		return 0, fmt.Errorf("no %g%% edge found for %s within search range", 100*ci.level, ci.profile.POINames()[idx])
	}

	for i := 0; i < 100 && math.Abs(outside-inside) > 1e-10*(1+math.Abs(center)); i++ {
		mid := 0.5 * (inside + outside)
		probe[idx] = mid
		ratio, err := ci.profile.Eval(probe)
		if err != nil {
			return 0, err
		}
		if ratio >= threshold {
			outside = mid
		} else {
			inside = mid
		}
	}
	return 0.5 * (inside + outside), nil
}

// Close releases the underlying profiled function and its owned NLL
func (ci *ConfidenceInterval) Close() error {
	return ci.profile.Close()
}
