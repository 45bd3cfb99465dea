package model

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"gowilks/domain/core"
	"gowilks/domain/params"
)

// GaussianConstraint is a normal prior on a single parameter, entering the
// likelihood as an external constraint term
type GaussianConstraint struct {
	param *params.Parameter
	mean  float64
	sigma float64
}

// NewGaussianConstraint creates a Gaussian prior centered at mean with the
// given width
func NewGaussianConstraint(p *params.Parameter, mean, sigma float64) *GaussianConstraint {
	return &GaussianConstraint{param: p, mean: mean, sigma: sigma}
}

// LogPdf evaluates the constraint at the parameter's current value
func (c *GaussianConstraint) LogPdf() float64 {
	if c.sigma <= 0 {
		return math.Inf(-1)
	}
	return distuv.Normal{Mu: c.mean, Sigma: c.sigma}.LogProb(c.param.Value())
}

// Param returns the constrained parameter
func (c *GaussianConstraint) Param() *params.Parameter {
	return c.param
}

// priorModel wraps a base model with constraint terms, the product-density
// analog for a model configuration that carries a prior
type priorModel struct {
	base        Model
	constraints []*GaussianConstraint
}

// WithPrior returns a model whose likelihood is the base likelihood
// multiplied by the given constraint densities
func WithPrior(base Model, constraints ...*GaussianConstraint) Model {
	return &priorModel{base: base, constraints: constraints}
}

func (m *priorModel) Name() string {
	return "constrained_" + m.base.Name()
}

func (m *priorModel) Parameters(data *Dataset) (*params.Set, error) {
	base, err := m.base.Parameters(data)
	if err != nil {
		return nil, err
	}
	// Constraint parameters outside the base dependency set still belong to
	// the full set.
	out, err := params.NewSet(base.Params()...)
	if err != nil {
		return nil, err
	}
	for _, c := range m.constraints {
		if out.Find(c.param.Name()) == nil {
			if err := out.Add(c.param); err != nil {
				return nil, core.ErrDuplicateParam
			}
		}
	}
	return out, nil
}

func (m *priorModel) LogPdf(x float64) float64 {
	return m.base.LogPdf(x)
}

func (m *priorModel) ConstraintLogPdf() float64 {
	total := 0.0
	for _, c := range m.constraints {
		total += c.LogPdf()
	}
	return total
}
