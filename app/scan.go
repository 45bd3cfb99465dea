package app

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"gowilks/domain/core"
	"gowilks/domain/inference"
)

// ScanPoint is one evaluation of the profile likelihood ratio on a grid
type ScanPoint struct {
	Value    float64 `json:"value"`
	DeltaNLL float64 `json:"delta_nll"`
}

// ScanProfile evaluates a confidence interval's profile over an explicit
// grid of values for one POI, holding any other POIs at their best-fit
// values. Evaluations run concurrently under a weighted semaphore; profiled
// functions support concurrent Eval.
func ScanProfile(ctx context.Context, ci *inference.ConfidenceInterval, poiName string, grid []float64, workers int64) ([]ScanPoint, error) {
	names := ci.POINames()
	idx := -1
	for i, n := range names {
		if n == poiName {
			idx = i
		}
	}
	if idx < 0 {
		return nil, core.NewParamNotFoundError(poiName)
	}

	base := make([]float64, len(names))
	for i, n := range names {
		e, ok := ci.BestFit(n)
		if !ok {
			return nil, core.NewParamNotFoundError(n)
		}
		base[i] = e.Value
	}

	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(workers)

	points := make([]ScanPoint, len(grid))
	errs := make([]error, len(grid))
	var wg sync.WaitGroup

	for i, v := range grid {
		if err := sem.Acquire(ctx, 1); err != nil {
			// In-flight workers still write into the result slices; they
			// must finish before the slices go out of scope
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(i int, v float64) {
			defer wg.Done()
			defer sem.Release(1)

			point := make([]float64, len(base))
			copy(point, base)
			point[idx] = v

			ratio, err := ci.ProfileAt(point)
			if err != nil {
				errs[i] = err
				return
			}
			points[i] = ScanPoint{Value: v, DeltaNLL: ratio}
		}(i, v)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return points, nil
}
