package inference

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignificancePValueRoundTrip(t *testing.T) {
	tests := []struct {
		z float64
		p float64
	}{
		{0, 0.5},
		{1, 0.158655},
		{1.6448536, 0.05},
		{2, 0.0227501},
		{3, 0.0013499},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.p, SignificanceToPValue(tt.z), 1e-6)
		assert.InDelta(t, tt.z, PValueToSignificance(tt.p), 1e-5)
	}

	assert.True(t, math.IsInf(PValueToSignificance(0), 1))
}

func TestDeltaNLLThreshold(t *testing.T) {
	// One dof at 95%: chi2 quantile 3.841, half of it
	assert.InDelta(t, 3.841459/2, DeltaNLLThreshold(0.95, 1), 1e-5)
	// 68.27% (one sigma) threshold is 0.5
	assert.InDelta(t, 0.5, DeltaNLLThreshold(0.6826895, 1), 1e-5)
}

// parabolicProfile mimics a Gaussian-mean profile: deltaNLL = (x-mu)^2 / (2 sigma^2)
type parabolicProfile struct {
	mu    float64
	sigma float64
}

func (p *parabolicProfile) POINames() []string { return []string{"mean"} }

func (p *parabolicProfile) Eval(v []float64) (float64, error) {
	d := v[0] - p.mu
	return d * d / (2 * p.sigma * p.sigma), nil
}

func (p *parabolicProfile) Close() error { return nil }

func TestConfidenceIntervalLevelValidation(t *testing.T) {
	profile := &parabolicProfile{mu: 2, sigma: 0.5}
	best := []ParameterEstimate{{Name: "mean", Value: 2, Error: 0.5}}

	for _, level := range []float64{0, 1, -0.1, 1.5} {
		_, err := NewConfidenceInterval(profile, best, level)
		assert.Error(t, err, "level %g", level)
	}

	ci, err := NewConfidenceInterval(profile, best, 0.95)
	require.NoError(t, err)
	assert.Equal(t, 0.95, ci.ConfidenceLevel())
}

func TestConfidenceIntervalBounds(t *testing.T) {
	mu, sigma := 2.0, 0.5
	profile := &parabolicProfile{mu: mu, sigma: sigma}
	best := []ParameterEstimate{{Name: "mean", Value: mu, Error: sigma}}

	ci, err := NewConfidenceInterval(profile, best, 0.95)
	require.NoError(t, err)

	lo, hi, err := ci.Bounds("mean")
	require.NoError(t, err)

	// Analytic edges: mu +/- sigma*sqrt(chi2_95) = mu +/- 1.95996*sigma
	z := 1.959964
	assert.InDelta(t, mu-z*sigma, lo, 1e-6)
	assert.InDelta(t, mu+z*sigma, hi, 1e-6)

	// A tighter level gives a narrower interval
	ci68, err := NewConfidenceInterval(profile, best, 0.6826895)
	require.NoError(t, err)
	lo68, hi68, err := ci68.Bounds("mean")
	require.NoError(t, err)
	assert.Greater(t, lo68, lo)
	assert.Less(t, hi68, hi)
	assert.InDelta(t, mu-sigma, lo68, 1e-5)
	assert.InDelta(t, mu+sigma, hi68, 1e-5)

	_, _, err = ci.Bounds("nope")
	assert.Error(t, err)
}

func TestConfidenceIntervalContains(t *testing.T) {
	profile := &parabolicProfile{mu: 2, sigma: 0.5}
	best := []ParameterEstimate{{Name: "mean", Value: 2, Error: 0.5}}

	ci, err := NewConfidenceInterval(profile, best, 0.95)
	require.NoError(t, err)

	inside, err := ci.Contains([]float64{2.0})
	require.NoError(t, err)
	assert.True(t, inside)

	outside, err := ci.Contains([]float64{4.0})
	require.NoError(t, err)
	assert.False(t, outside)
}

func TestHypoTestResult(t *testing.T) {
	r := NewHypoTestResult(2.0)
	assert.InDelta(t, 0.0227501, r.PValue(), 1e-6)
	assert.InDelta(t, 2.0, r.Significance(), 1e-9)

	// Zero evidence against the null
	r0 := NewHypoTestResult(0)
	assert.InDelta(t, 0.5, r0.PValue(), 1e-12)
}

func TestFitResultFind(t *testing.T) {
	r := NewFitResult(10, []ParameterEstimate{{Name: "mean", Value: 2, Error: 0.2}}, true, 42)

	e, ok := r.Find("mean")
	require.True(t, ok)
	assert.Equal(t, 2.0, e.Value)

	_, ok = r.Find("sigma")
	assert.False(t, ok)
	assert.NotEmpty(t, string(r.ID))
}
