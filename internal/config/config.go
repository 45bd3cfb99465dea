package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"gowilks/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Inference InferenceConfig
	Fit       FitConfig
	Scan      ScanConfig
}

// InferenceConfig holds statistical defaults
type InferenceConfig struct {
	// TestSize is the default test size; confidence level is 1 - TestSize
	TestSize float64
}

// FitConfig holds optimizer settings per strategy
type FitConfig struct {
	MaxIterations     int
	FastMaxIterations int
	Tolerance         float64
	FastTolerance     float64
}

// ScanConfig holds likelihood scan settings
type ScanConfig struct {
	Workers int64
}

// Load reads configuration from the environment, layering a .env file if
// one is present, and validates it
func Load() (*Config, error) {
	// A missing .env file is not an error; the environment wins either way
	_ = godotenv.Load()

	config := &Config{
		Inference: InferenceConfig{
			TestSize: getEnvFloatOrDefault("TEST_SIZE", 0.05),
		},
		Fit: FitConfig{
			MaxIterations:     getEnvIntOrDefault("FIT_MAX_ITERATIONS", 2000),
			FastMaxIterations: getEnvIntOrDefault("FIT_FAST_MAX_ITERATIONS", 500),
			Tolerance:         getEnvFloatOrDefault("FIT_TOLERANCE", 1e-10),
			FastTolerance:     getEnvFloatOrDefault("FIT_FAST_TOLERANCE", 1e-7),
		},
		Scan: ScanConfig{
			Workers: int64(getEnvIntOrDefault("SCAN_WORKERS", 4)),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(c *Config) error {
	if c.Inference.TestSize <= 0 || c.Inference.TestSize >= 1 {
		return errors.ConfigInvalid("TEST_SIZE must be in (0,1)")
	}
	if c.Fit.MaxIterations <= 0 || c.Fit.FastMaxIterations <= 0 {
		return errors.ConfigInvalid("fit iteration budgets must be positive")
	}
	if c.Fit.Tolerance <= 0 || c.Fit.FastTolerance <= 0 {
		return errors.ConfigInvalid("fit tolerances must be positive")
	}
	if c.Scan.Workers <= 0 {
		return errors.ConfigInvalid("SCAN_WORKERS must be positive")
	}
	return nil
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
