package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowilks/domain/params"
)

func TestGaussianLogPdf(t *testing.T) {
	mean := params.New("mean", 0)
	sigma := params.New("sigma", 1)
	g := NewGaussian("g", mean, sigma)

	// Standard normal at zero: -0.5*log(2*pi)
	assert.InDelta(t, -0.5*math.Log(2*math.Pi), g.LogPdf(0), 1e-12)

	// Evaluation tracks the parameters' current values
	mean.SetValue(3)
	assert.InDelta(t, -0.5*math.Log(2*math.Pi), g.LogPdf(3), 1e-12)

	sigma.SetValue(-1)
	assert.True(t, math.IsInf(g.LogPdf(0), -1))
}

func TestGaussianParameters(t *testing.T) {
	mean := params.New("mean", 0)
	sigma := params.New("sigma", 1)
	g := NewGaussian("g", mean, sigma)

	data, err := NewDataset("obs", []float64{1, 2})
	require.NoError(t, err)

	set, err := g.Parameters(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"mean", "sigma"}, set.Names())

	_, err = g.Parameters(nil)
	assert.Error(t, err)
}

func TestExponentialLogPdf(t *testing.T) {
	rate := params.New("rate", 2)
	e := NewExponential("e", rate)

	// log(rate) - rate*x
	assert.InDelta(t, math.Log(2)-2*1.5, e.LogPdf(1.5), 1e-12)
	assert.True(t, math.IsInf(e.LogPdf(-1), -1))
}

func TestPoissonLogPdf(t *testing.T) {
	lambda := params.New("lambda", 3)
	p := NewPoisson("p", lambda)

	// P(X=2) = e^-3 * 9 / 2
	want := math.Log(math.Exp(-3) * 9 / 2)
	assert.InDelta(t, want, p.LogPdf(2), 1e-9)
}

func TestDatasetRejectsEmpty(t *testing.T) {
	_, err := NewDataset("obs", nil)
	assert.Error(t, err)
}

func TestDatasetCloneValuesIsOwned(t *testing.T) {
	src := []float64{1, 2, 3}
	data, err := NewDataset("obs", src)
	require.NoError(t, err)

	clone := data.CloneValues()
	clone[0] = 99
	assert.Equal(t, 1.0, data.Values()[0])
}

func TestWithPrior(t *testing.T) {
	mean := params.New("mean", 0)
	sigma := params.NewConstant("sigma", 1)
	base := NewGaussian("g", mean, sigma)

	constraint := NewGaussianConstraint(mean, 1.0, 0.5)
	m := WithPrior(base, constraint)

	// Base density unchanged
	assert.InDelta(t, base.LogPdf(0.3), m.LogPdf(0.3), 1e-12)

	cm, ok := m.(Constrained)
	require.True(t, ok)
	assert.InDelta(t, constraint.LogPdf(), cm.ConstraintLogPdf(), 1e-12)

	// Constraint tightens as the parameter leaves the prior mean
	at0 := cm.ConstraintLogPdf()
	mean.SetValue(1.0)
	at1 := cm.ConstraintLogPdf()
	assert.Greater(t, at1, at0)

	data, err := NewDataset("obs", []float64{1})
	require.NoError(t, err)
	set, err := m.Parameters(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"mean", "sigma"}, set.Names())
}

func TestWithPriorExternalConstraintParameter(t *testing.T) {
	mean := params.New("mean", 0)
	sigma := params.NewConstant("sigma", 1)
	base := NewGaussian("g", mean, sigma)

	// A constraint on a parameter outside the base dependency set extends it
	shift := params.New("shift", 0)
	m := WithPrior(base, NewGaussianConstraint(shift, 0, 1))

	data, err := NewDataset("obs", []float64{1})
	require.NoError(t, err)
	set, err := m.Parameters(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"mean", "sigma", "shift"}, set.Names())
}
