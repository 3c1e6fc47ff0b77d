package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/MK-vet/bact-mdr-profiler/domain/core"
	"github.com/MK-vet/bact-mdr-profiler/internal/errors"
)

// Defaults for the discovery engine.
const (
	DefaultAlpha         = 0.05
	DefaultMaxCondSize   = 3
	DefaultMinStratumN   = 10
	DefaultSeed          = 42
	MaxSupportedCondSize = 8 // strata degenerate quickly beyond this
)

// Discovery holds the configuration bundle for one causal discovery run.
type Discovery struct {
	// Alpha is the significance threshold for independence decisions.
	Alpha float64
	// MaxCondSize caps the conditioning set size during skeleton search.
	MaxCondSize int
	// MinStratumSampleSize is the effective-sample-size floor below
	// which an independence test is marked inconclusive.
	MinStratumSampleSize int
	// RandomSeed is carried into the run fingerprint. The statistics
	// themselves are deterministic; the seed only feeds tie-breaking or
	// permutation fallbacks if one is ever invoked.
	RandomSeed int64
	// MaxParallelTests bounds the per-level worker pool.
	MaxParallelTests int
}

// Default returns the engine defaults.
func Default() Discovery {
	return Discovery{
		Alpha:                DefaultAlpha,
		MaxCondSize:          DefaultMaxCondSize,
		MinStratumSampleSize: DefaultMinStratumN,
		RandomSeed:           DefaultSeed,
		MaxParallelTests:     runtime.NumCPU(),
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Discovery, error) {
	cfg := Default()
	cfg.Alpha = getEnvFloatOrDefault("CAUSAL_ALPHA", cfg.Alpha)
	cfg.MaxCondSize = getEnvIntOrDefault("CAUSAL_MAX_COND_SIZE", cfg.MaxCondSize)
	cfg.MinStratumSampleSize = getEnvIntOrDefault("CAUSAL_MIN_STRATUM_N", cfg.MinStratumSampleSize)
	cfg.RandomSeed = int64(getEnvIntOrDefault("CAUSAL_SEED", int(cfg.RandomSeed)))
	cfg.MaxParallelTests = getEnvIntOrDefault("CAUSAL_MAX_PARALLEL", cfg.MaxParallelTests)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &cfg, nil
}

// Validate rejects out-of-range settings with descriptive configuration
// errors. There is no silent recovery path for malformed configuration.
func (c Discovery) Validate() error {
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("%w: got %v", core.ErrAlphaOutOfRange, c.Alpha)
	}
	if c.MaxCondSize < 0 {
		return fmt.Errorf("%w: got %d", core.ErrNegativeCondSet, c.MaxCondSize)
	}
	if c.MaxCondSize > MaxSupportedCondSize {
		return core.NewConfigError("max_conditioning_set_size",
			fmt.Sprintf("%d exceeds supported maximum %d", c.MaxCondSize, MaxSupportedCondSize))
	}
	if c.MinStratumSampleSize < 1 {
		return fmt.Errorf("%w: got %d", core.ErrStratumFloor, c.MinStratumSampleSize)
	}
	if c.MaxParallelTests < 1 {
		return core.NewConfigError("max_parallel_tests",
			fmt.Sprintf("must be >= 1, got %d", c.MaxParallelTests))
	}
	return nil
}

// Fingerprint serializes the settings that affect run output.
func (c Discovery) Fingerprint() string {
	return fmt.Sprintf("alpha=%v;max_cond=%d;min_stratum=%d;seed=%d",
		c.Alpha, c.MaxCondSize, c.MinStratumSampleSize, c.RandomSeed)
}

// Helper functions for environment variable parsing
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
