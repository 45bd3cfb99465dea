package model

import (
	"gowilks/domain/core"
)

// Dataset is an observed sample of a single observable. The calculator holds
// a non-owning reference; likelihood construction copies the values it needs.
type Dataset struct {
	name   string
	values []float64
}

// NewDataset creates a dataset over the given observations
func NewDataset(name string, values []float64) (*Dataset, error) {
	if len(values) == 0 {
		return nil, core.ErrNoData
	}
	return &Dataset{name: name, values: values}, nil
}

// Name returns the dataset name
func (d *Dataset) Name() string {
	return d.name
}

// Len returns the number of observations
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.values)
}

// Values returns the observations. Callers must not mutate the slice.
func (d *Dataset) Values() []float64 {
	return d.values
}

// CloneValues returns an owned copy of the observations, for consumers that
// must outlive the caller's slice
func (d *Dataset) CloneValues() []float64 {
	out := make([]float64, len(d.values))
	copy(out, d.values)
	return out
}
