package params

import (
	"fmt"
	"math"
)

// Parameter is a named mutable scalar belonging to a model. Fits read and
// write its value; the constant flag decides whether an optimizer may float
// it. Instances are shared between the model, the calculator and fit code,
// so temporary mutation must always be paired with a Snapshot restore.
type Parameter struct {
	name     string
	value    float64
	err      float64
	constant bool

	hasRange bool
	lo, hi   float64
}

// New creates a floating parameter with the given starting value
func New(name string, value float64) *Parameter {
	return &Parameter{name: name, value: value}
}

// NewConstant creates a parameter that is held fixed during fits
func NewConstant(name string, value float64) *Parameter {
	return &Parameter{name: name, value: value, constant: true}
}

// Name returns the parameter name
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the current value
func (p *Parameter) Value() float64 {
	return p.value
}

// SetValue updates the current value, clamping into the range if one is set
func (p *Parameter) SetValue(v float64) {
	if p.hasRange {
		v = math.Min(math.Max(v, p.lo), p.hi)
	}
	p.value = v
}

// Error returns the current uncertainty (zero until a fit assigns one)
func (p *Parameter) Error() float64 {
	return p.err
}

// SetError updates the uncertainty
func (p *Parameter) SetError(e float64) {
	p.err = e
}

// IsConstant reports whether the parameter is held fixed during fits
func (p *Parameter) IsConstant() bool {
	return p.constant
}

// SetConstant toggles the constant flag
func (p *Parameter) SetConstant(c bool) {
	p.constant = c
}

// SetRange bounds the allowed values; SetValue clamps into [lo, hi]
func (p *Parameter) SetRange(lo, hi float64) error {
	if lo >= hi {
		return fmt.Errorf("invalid range [%g, %g] for parameter %s", lo, hi, p.name)
	}
	p.hasRange = true
	p.lo, p.hi = lo, hi
	p.value = math.Min(math.Max(p.value, lo), hi)
	return nil
}

// Range returns the configured bounds; ok is false when unbounded
func (p *Parameter) Range() (lo, hi float64, ok bool) {
	return p.lo, p.hi, p.hasRange
}

// String returns a compact representation for logs
func (p *Parameter) String() string {
	state := "float"
	if p.constant {
		state = "const"
	}
	if p.err > 0 {
		return fmt.Sprintf("%s = %g +/- %g (%s)", p.name, p.value, p.err, state)
	}
	return fmt.Sprintf("%s = %g (%s)", p.name, p.value, state)
}
