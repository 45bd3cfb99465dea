package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowilks/domain/inference"
)

// quadraticProfile is a pure profile safe for concurrent evaluation
type quadraticProfile struct {
	names  []string
	center []float64
}

func (q *quadraticProfile) POINames() []string { return q.names }

func (q *quadraticProfile) Eval(v []float64) (float64, error) {
	sum := 0.0
	for i := range v {
		d := v[i] - q.center[i]
		sum += d * d
	}
	return sum, nil
}

func (q *quadraticProfile) Close() error { return nil }

func newScanInterval(t *testing.T) *inference.ConfidenceInterval {
	t.Helper()
	profile := &quadraticProfile{names: []string{"mean", "width"}, center: []float64{2.0, 1.0}}
	ci, err := inference.NewConfidenceInterval(profile, []inference.ParameterEstimate{
		{Name: "mean", Value: 2.0, Error: 0.5},
		{Name: "width", Value: 1.0, Error: 0.1},
	}, 0.95)
	require.NoError(t, err)
	return ci
}

func TestScanProfile(t *testing.T) {
	ci := newScanInterval(t)

	grid := []float64{0, 1, 2, 3, 4}
	points, err := ScanProfile(context.Background(), ci, "mean", grid, 3)
	require.NoError(t, err)
	require.Len(t, points, len(grid))

	// Other POIs held at best fit, so deltaNLL = (v-2)^2 with the minimum
	// on the grid at the MLE
	for i, p := range points {
		assert.Equal(t, grid[i], p.Value)
		d := grid[i] - 2.0
		assert.InDelta(t, d*d, p.DeltaNLL, 1e-12)
	}
	assert.Equal(t, 0.0, points[2].DeltaNLL)
}

// gatedProfile blocks every evaluation until released, so a scan can be
// cancelled with a worker still in flight
type gatedProfile struct {
	started  chan struct{}
	release  chan struct{}
	finished bool
}

func (g *gatedProfile) POINames() []string { return []string{"mean"} }

func (g *gatedProfile) Eval(v []float64) (float64, error) {
	select {
	case g.started <- struct{}{}:
	default:
	}
	<-g.release
	g.finished = true
	return 0, nil
}

func (g *gatedProfile) Close() error { return nil }

func TestScanProfileCancelledBeforeStart(t *testing.T) {
	ci := newScanInterval(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ScanProfile(ctx, ci, "mean", []float64{1, 2, 3}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanProfileCancelledMidScanWaitsForWorkers(t *testing.T) {
	profile := &gatedProfile{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	ci, err := inference.NewConfidenceInterval(profile, []inference.ParameterEstimate{
		{Name: "mean", Value: 2.0, Error: 0.5},
	}, 0.95)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-profile.started
		cancel()
		close(profile.release)
	}()

	// One worker slot: the first point blocks in Eval, the second acquire
	// fails once the context is cancelled
	_, err = ScanProfile(ctx, ci, "mean", []float64{1, 2}, 1)
	assert.ErrorIs(t, err, context.Canceled)

	// The in-flight evaluation completed before ScanProfile returned
	assert.True(t, profile.finished)
}

func TestScanProfileUnknownPOI(t *testing.T) {
	ci := newScanInterval(t)

	_, err := ScanProfile(context.Background(), ci, "nope", []float64{1, 2}, 2)
	assert.Error(t, err)
}

func TestScanProfileSingleWorker(t *testing.T) {
	ci := newScanInterval(t)

	points, err := ScanProfile(context.Background(), ci, "width", []float64{0.5, 1.0, 1.5}, 0)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.InDelta(t, 0.25, points[0].DeltaNLL, 1e-12)
	assert.Equal(t, 0.0, points[1].DeltaNLL)
}
