package gonumopt

import (
	"errors"
	"sync"

	"gowilks/domain/model"
	"gowilks/domain/params"
	"gowilks/ports"
)

var errClosed = errors.New("nll function is closed")

// nllFunc is a negative log-likelihood over a model and an owned copy of the
// dataset values. evalAt temporarily writes candidate values into the shared
// parameters under the mutex and restores them before returning, so
// evaluations never leak state and are safe to run concurrently.
type nllFunc struct {
	mu     sync.Mutex
	m      model.Model
	values []float64
	order  []*params.Parameter
	closed bool
}

var _ ports.NLLFunction = (*nllFunc)(nil)

func newNLL(m model.Model, data *model.Dataset, constrained *params.Set) *nllFunc {
	return &nllFunc{
		m:      m,
		values: data.CloneValues(),
		order:  constrained.Params(),
	}
}

// Eval computes the NLL at the parameters' current values
func (f *nllFunc) Eval() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, errClosed
	}
	return f.compute(), nil
}

// compute sums the per-observation log densities and any constraint term.
// Callers must hold the mutex.
func (f *nllFunc) compute() float64 {
	nll := 0.0
	for _, x := range f.values {
		nll -= f.m.LogPdf(x)
	}
	if cm, ok := f.m.(model.Constrained); ok {
		nll -= cm.ConstraintLogPdf()
	}
	return nll
}

// evalAt computes the NLL with the parameters at the given indices of the
// order set to x, restoring their previous values before returning
func (f *nllFunc) evalAt(idxs []int, x []float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	saved := make([]float64, len(idxs))
	for i, j := range idxs {
		saved[i] = f.order[j].Value()
		f.order[j].SetValue(x[i])
	}
	v := f.compute()
	for i, j := range idxs {
		f.order[j].SetValue(saved[i])
	}
	return v
}

// currentValues reads the current values at the given indices under the
// mutex, so concurrent evalAt calls are never observed mid-mutation
func (f *nllFunc) currentValues(idxs []int) []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]float64, len(idxs))
	for i, j := range idxs {
		out[i] = f.order[j].Value()
	}
	return out
}

// Close releases the owned data copy
func (f *nllFunc) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.values = nil
	return nil
}
