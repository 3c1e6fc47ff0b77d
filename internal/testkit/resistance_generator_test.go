package testkit

import (
	"testing"

	"github.com/MK-vet/bact-mdr-profiler/domain/amr"
	"github.com/MK-vet/bact-mdr-profiler/domain/core"
)

// TestGenerator_Deterministic verifies identical configurations produce
// byte-identical matrices.
func TestGenerator_Deterministic(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	a := NewGenerator(cfg).ChainScenario()
	b := NewGenerator(cfg).ChainScenario()
	if !core.Hash(a.Hash()).Equals(core.Hash(b.Hash())) {
		t.Error("Chain scenario must be reproducible")
	}

	ma := NewGenerator(cfg).WithMissing(a, 0.3)
	mb := NewGenerator(cfg).WithMissing(b, 0.3)
	if !core.Hash(ma.Hash()).Equals(core.Hash(mb.Hash())) {
		t.Error("Missingness injection must be reproducible for a fixed seed")
	}
}

// TestGenerator_ScenarioShapes checks dimensions and node naming.
func TestGenerator_ScenarioShapes(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Samples = 120
	gen := NewGenerator(cfg)

	for name, m := range map[string]*amr.Matrix{
		"chain":    gen.ChainScenario(),
		"collider": gen.ColliderScenario(),
		"null":     gen.NullScenario(),
	} {
		if m.NumSamples() != 120 {
			t.Errorf("%s: expected 120 samples, got %d", name, m.NumSamples())
		}
		if m.NumNodes() != 5 {
			t.Errorf("%s: expected 5 nodes, got %d", name, m.NumNodes())
		}
		if err := m.Validate(); err != nil {
			t.Errorf("%s: generated matrix rejected: %v", name, err)
		}
	}
}

// TestGenerator_ChainMarginals verifies the exact expansion: the root is
// balanced and each noisy copy agrees with its parent at roughly the
// configured rate.
func TestGenerator_ChainMarginals(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	gen := NewGenerator(cfg)
	m := gen.ChainScenario()

	iA, _ := m.NodeIndex("A")
	iB, _ := m.NodeIndex("B")

	resistantA := 0
	agree := 0
	for row := 0; row < m.NumSamples(); row++ {
		if m.At(row, iA) == amr.Resistant {
			resistantA++
		}
		if m.At(row, iA) == m.At(row, iB) {
			agree++
		}
	}

	if resistantA != m.NumSamples()/2 {
		t.Errorf("Expected a balanced root, got %d resistant of %d", resistantA, m.NumSamples())
	}
	agreeRate := float64(agree) / float64(m.NumSamples())
	if agreeRate < 0.85 || agreeRate > 0.95 {
		t.Errorf("Expected A-B agreement near 0.90, got %v", agreeRate)
	}
}

// TestGenerator_WithMissingRate verifies the injected missingness rate
// and that the original matrix is untouched.
func TestGenerator_WithMissingRate(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	gen := NewGenerator(cfg)
	base := gen.NullScenario()
	degraded := gen.WithMissing(base, 0.3)

	missing := 0
	total := degraded.NumSamples() * degraded.NumNodes()
	for row := 0; row < degraded.NumSamples(); row++ {
		for col := 0; col < degraded.NumNodes(); col++ {
			if !degraded.At(row, col).Observed() {
				missing++
			}
			if !base.At(row, col).Observed() {
				t.Fatal("Source matrix must not be mutated")
			}
		}
	}

	rate := float64(missing) / float64(total)
	if rate < 0.2 || rate > 0.4 {
		t.Errorf("Expected missing rate near 0.3, got %v", rate)
	}
}

// TestApportion_SumsToTotal verifies the largest-remainder split.
func TestApportion_SumsToTotal(t *testing.T) {
	counts := apportion([]float64{0.5, 0.3, 0.2}, 101)
	sum := 0
	for _, c := range counts {
		sum += c
	}
	if sum != 101 {
		t.Errorf("Expected counts to sum to 101, got %d", sum)
	}
	if counts[0] != 51 || counts[1] != 30 || counts[2] != 20 {
		t.Errorf("Unexpected apportionment %v", counts)
	}
}
