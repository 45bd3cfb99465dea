package testkit

import (
	"math/rand"

	"github.com/montanaflynn/stats"

	"gowilks/domain/model"
)

// TestKit provides deterministic fixtures for statistical tests
type TestKit struct {
	rng *rand.Rand
}

// NewTestKit creates a test kit with a fixed seed
func NewTestKit(seed int64) *TestKit {
	return &TestKit{rng: rand.New(rand.NewSource(seed))}
}

// GaussianSample draws n observations from N(mu, sigma)
func (k *TestKit) GaussianSample(n int, mu, sigma float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mu + sigma*k.rng.NormFloat64()
	}
	return out
}

// ExponentialSample draws n observations from Exp(rate)
func (k *TestKit) ExponentialSample(n int, rate float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = k.rng.ExpFloat64() / rate
	}
	return out
}

// GaussianDataset builds a dataset from a Gaussian sample
func (k *TestKit) GaussianDataset(name string, n int, mu, sigma float64) (*model.Dataset, error) {
	return model.NewDataset(name, k.GaussianSample(n, mu, sigma))
}

// CenteredSample returns n values whose sample mean is exactly mu, for
// scenarios needing an analytically known MLE
func CenteredSample(n int, mu, spread float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		// Symmetric offsets around mu cancel exactly
		out[i] = mu + spread*(float64(i)-float64(n-1)/2)
	}
	return out
}

// Summary holds descriptive statistics of a sample
type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes descriptive statistics for a sample
func Summarize(data []float64) Summary {
	mean, _ := stats.Mean(data)
	sd, _ := stats.StandardDeviation(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	return Summary{N: len(data), Mean: mean, StdDev: sd, Min: min, Max: max}
}
