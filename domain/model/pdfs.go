package model

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"gowilks/domain/core"
	"gowilks/domain/params"
)

// Gaussian is a normal density with mean and width parameters
type Gaussian struct {
	name  string
	mean  *params.Parameter
	sigma *params.Parameter
}

// NewGaussian creates a Gaussian model over the given parameters
func NewGaussian(name string, mean, sigma *params.Parameter) *Gaussian {
	return &Gaussian{name: name, mean: mean, sigma: sigma}
}

func (g *Gaussian) Name() string { return g.name }

func (g *Gaussian) Parameters(data *Dataset) (*params.Set, error) {
	if data == nil {
		return nil, core.ErrNoData
	}
	return params.NewSet(g.mean, g.sigma)
}

func (g *Gaussian) LogPdf(x float64) float64 {
	sigma := g.sigma.Value()
	if sigma <= 0 {
		return math.Inf(-1)
	}
	return distuv.Normal{Mu: g.mean.Value(), Sigma: sigma}.LogProb(x)
}

// Exponential is an exponential density with a rate parameter
type Exponential struct {
	name string
	rate *params.Parameter
}

// NewExponential creates an exponential model over the given rate
func NewExponential(name string, rate *params.Parameter) *Exponential {
	return &Exponential{name: name, rate: rate}
}

func (e *Exponential) Name() string { return e.name }

func (e *Exponential) Parameters(data *Dataset) (*params.Set, error) {
	if data == nil {
		return nil, core.ErrNoData
	}
	return params.NewSet(e.rate)
}

func (e *Exponential) LogPdf(x float64) float64 {
	rate := e.rate.Value()
	if rate <= 0 || x < 0 {
		return math.Inf(-1)
	}
	return distuv.Exponential{Rate: rate}.LogProb(x)
}

// Poisson is a Poisson density with a mean parameter; observations are
// counts stored as float64
type Poisson struct {
	name   string
	lambda *params.Parameter
}

// NewPoisson creates a Poisson model over the given mean
func NewPoisson(name string, lambda *params.Parameter) *Poisson {
	return &Poisson{name: name, lambda: lambda}
}

func (p *Poisson) Name() string { return p.name }

func (p *Poisson) Parameters(data *Dataset) (*params.Set, error) {
	if data == nil {
		return nil, core.ErrNoData
	}
	return params.NewSet(p.lambda)
}

func (p *Poisson) LogPdf(x float64) float64 {
	lambda := p.lambda.Value()
	if lambda <= 0 || x < 0 {
		return math.Inf(-1)
	}
	return distuv.Poisson{Lambda: lambda}.LogProb(math.Round(x))
}
