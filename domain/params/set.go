package params

import (
	"fmt"

	"gowilks/domain/core"
)

// Set is an ordered, name-indexed collection of shared Parameter instances.
// Sets never own their parameters; subsets produced by Floating or Without
// alias the same instances as the source set.
type Set struct {
	ordered []*Parameter
	index   map[string]int
}

// NewSet creates a set from the given parameters, preserving order
func NewSet(parameters ...*Parameter) (*Set, error) {
	s := &Set{index: make(map[string]int, len(parameters))}
	for _, p := range parameters {
		if err := s.Add(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustNewSet is NewSet for statically known parameter lists
func MustNewSet(parameters ...*Parameter) *Set {
	s, err := NewSet(parameters...)
	if err != nil {
		panic(err)
	}
	return s
}

// Add appends a parameter, rejecting duplicate names
func (s *Set) Add(p *Parameter) error {
	if _, exists := s.index[p.Name()]; exists {
		return fmt.Errorf("%w: %s", core.ErrDuplicateParam, p.Name())
	}
	s.index[p.Name()] = len(s.ordered)
	s.ordered = append(s.ordered, p)
	return nil
}

// Find returns the parameter with the given name, or nil
func (s *Set) Find(name string) *Parameter {
	if s == nil {
		return nil
	}
	if i, ok := s.index[name]; ok {
		return s.ordered[i]
	}
	return nil
}

// Len returns the number of parameters in the set
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ordered)
}

// Params returns the parameters in insertion order. Callers must not mutate
// the returned slice.
func (s *Set) Params() []*Parameter {
	if s == nil {
		return nil
	}
	return s.ordered
}

// Names returns the parameter names in insertion order
func (s *Set) Names() []string {
	names := make([]string, 0, s.Len())
	for _, p := range s.Params() {
		names = append(names, p.Name())
	}
	return names
}

// Values returns the current values in insertion order
func (s *Set) Values() []float64 {
	values := make([]float64, 0, s.Len())
	for _, p := range s.Params() {
		values = append(values, p.Value())
	}
	return values
}

// Floating returns the subset of parameters not flagged constant, aliasing
// the same instances
func (s *Set) Floating() *Set {
	out := &Set{index: make(map[string]int)}
	for _, p := range s.Params() {
		if !p.IsConstant() {
			out.index[p.Name()] = len(out.ordered)
			out.ordered = append(out.ordered, p)
		}
	}
	return out
}

// Without returns the subset excluding the named parameters
func (s *Set) Without(names ...string) *Set {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	out := &Set{index: make(map[string]int)}
	for _, p := range s.Params() {
		if !drop[p.Name()] {
			out.index[p.Name()] = len(out.ordered)
			out.ordered = append(out.ordered, p)
		}
	}
	return out
}
