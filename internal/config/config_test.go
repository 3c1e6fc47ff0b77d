package config

import (
	"errors"
	"testing"

	"github.com/MK-vet/bact-mdr-profiler/domain/core"
)

// TestDefault_IsValid sanity-checks the shipped defaults.
func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default configuration must validate: %v", err)
	}
	if cfg.Alpha != DefaultAlpha || cfg.MaxCondSize != DefaultMaxCondSize {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

// TestValidate_Rejections covers every out-of-range setting.
func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Discovery)
		want   error
	}{
		{"alpha zero", func(c *Discovery) { c.Alpha = 0 }, core.ErrAlphaOutOfRange},
		{"alpha one", func(c *Discovery) { c.Alpha = 1 }, core.ErrAlphaOutOfRange},
		{"negative cond size", func(c *Discovery) { c.MaxCondSize = -1 }, core.ErrNegativeCondSet},
		{"cond size too large", func(c *Discovery) { c.MaxCondSize = MaxSupportedCondSize + 1 }, core.ErrInvalidConfig},
		{"stratum floor zero", func(c *Discovery) { c.MinStratumSampleSize = 0 }, core.ErrStratumFloor},
		{"no workers", func(c *Discovery) { c.MaxParallelTests = 0 }, core.ErrInvalidConfig},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}
}

// TestLoad_FromEnvironment verifies the CAUSAL_* variables override the
// defaults.
func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CAUSAL_ALPHA", "0.01")
	t.Setenv("CAUSAL_MAX_COND_SIZE", "2")
	t.Setenv("CAUSAL_MIN_STRATUM_N", "25")
	t.Setenv("CAUSAL_SEED", "7")
	t.Setenv("CAUSAL_MAX_PARALLEL", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Alpha != 0.01 || cfg.MaxCondSize != 2 || cfg.MinStratumSampleSize != 25 {
		t.Errorf("Environment overrides not applied: %+v", cfg)
	}
	if cfg.RandomSeed != 7 || cfg.MaxParallelTests != 2 {
		t.Errorf("Environment overrides not applied: %+v", cfg)
	}
}

// TestLoad_MalformedValueFallsBack verifies unparseable values keep the
// default rather than failing.
func TestLoad_MalformedValueFallsBack(t *testing.T) {
	t.Setenv("CAUSAL_ALPHA", "not-a-number")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Alpha != DefaultAlpha {
		t.Errorf("Expected fallback to default alpha, got %v", cfg.Alpha)
	}
}

// TestLoad_InvalidSettingFails verifies a parseable but out-of-range
// value is rejected.
func TestLoad_InvalidSettingFails(t *testing.T) {
	t.Setenv("CAUSAL_ALPHA", "2.0")
	if _, err := Load(); !core.IsConfigError(err) {
		t.Errorf("Expected a configuration error for alpha=2.0, got %v", err)
	}
}

// TestFingerprint_ExcludesParallelism verifies the worker bound does not
// change run identity: it affects scheduling, never output.
func TestFingerprint_ExcludesParallelism(t *testing.T) {
	a := Default()
	b := Default()
	b.MaxParallelTests = 1
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("Parallelism must not enter the run fingerprint")
	}

	c := Default()
	c.Alpha = 0.01
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("Alpha must enter the run fingerprint")
	}
}
