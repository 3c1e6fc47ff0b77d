// Package testkit generates deterministic synthetic resistance data
// from known causal structures, for tests and the selfcheck command.
//
// Scenario matrices are exact expansions of the generating DAG's joint
// distribution (largest-remainder apportionment of row counts), not
// random samples: implied independencies hold up to rounding and
// implied dependencies at full strength, so validation scenarios have
// no sampling-noise failure mode. Randomness is used only for
// missing-data injection.
package testkit

import (
	"math/rand"
	"sort"

	"github.com/MK-vet/bact-mdr-profiler/domain/amr"
	"github.com/MK-vet/bact-mdr-profiler/domain/core"
)

// GeneratorConfig controls synthetic data generation.
type GeneratorConfig struct {
	Samples int
	Seed    int64
	// Flip is the label-noise probability on caused values; lower
	// noise means stronger detectable dependence.
	Flip float64
}

// DefaultGeneratorConfig matches the documented validation scenarios.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Samples: 200,
		Seed:    42,
		Flip:    0.10,
	}
}

// Generator builds scenario matrices and injects missingness.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// NewGenerator creates a seeded generator; identical configurations
// reproduce identical matrices.
func NewGenerator(cfg GeneratorConfig) *Generator {
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// apportion distributes n rows across combo weights by largest
// remainder, ties resolved toward the lower combo index.
func apportion(weights []float64, n int) []int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	counts := make([]int, len(weights))
	type frac struct {
		idx  int
		rem  float64
	}
	fracs := make([]frac, len(weights))
	assigned := 0
	for i, w := range weights {
		exact := float64(n) * w / total
		counts[i] = int(exact)
		assigned += counts[i]
		fracs[i] = frac{idx: i, rem: exact - float64(counts[i])}
	}
	sort.SliceStable(fracs, func(i, j int) bool { return fracs[i].rem > fracs[j].rem })
	for i := 0; i < n-assigned; i++ {
		counts[fracs[i%len(fracs)].idx]++
	}
	return counts
}

func cell(bit int) amr.Cell {
	if bit == 1 {
		return amr.Resistant
	}
	return amr.Susceptible
}

// copyProb is P(child = parent) under the configured label noise.
func (g *Generator) copyProb(child, parent int) float64 {
	if child == parent {
		return 1 - g.cfg.Flip
	}
	return g.cfg.Flip
}

// ChainScenario expands the DAG A -> B -> C, A -> D with E independent
// of everything. The detectable skeleton is {A-B, B-C, A-D}; every
// edge touching E is spurious. E alternates within each combo block so
// it is exactly balanced against the other features.
func (g *Generator) ChainScenario() *amr.Matrix {
	nodes := []core.NodeKey{"A", "B", "C", "D", "E"}

	var weights []float64
	var combos [][4]int
	for a := 0; a <= 1; a++ {
		for b := 0; b <= 1; b++ {
			for c := 0; c <= 1; c++ {
				for d := 0; d <= 1; d++ {
					w := 0.5 * g.copyProb(b, a) * g.copyProb(c, b) * g.copyProb(d, a)
					weights = append(weights, w)
					combos = append(combos, [4]int{a, b, c, d})
				}
			}
		}
	}

	counts := apportion(weights, g.cfg.Samples)
	rows := make([][]amr.Cell, 0, g.cfg.Samples)
	for i, combo := range combos {
		for r := 0; r < counts[i]; r++ {
			rows = append(rows, []amr.Cell{
				cell(combo[0]), cell(combo[1]), cell(combo[2]), cell(combo[3]), cell(r % 2),
			})
		}
	}
	return mustMatrix(nodes, rows)
}

// ColliderScenario expands A -> C <- B with A, B independent, plus two
// isolated features D and E interleaved orthogonally.
func (g *Generator) ColliderScenario() *amr.Matrix {
	nodes := []core.NodeKey{"A", "B", "C", "D", "E"}

	var weights []float64
	var combos [][3]int
	for a := 0; a <= 1; a++ {
		for b := 0; b <= 1; b++ {
			or := 0
			if a == 1 || b == 1 {
				or = 1
			}
			for c := 0; c <= 1; c++ {
				weights = append(weights, 0.25*g.copyProb(c, or))
				combos = append(combos, [3]int{a, b, c})
			}
		}
	}

	counts := apportion(weights, g.cfg.Samples)
	rows := make([][]amr.Cell, 0, g.cfg.Samples)
	for i, combo := range combos {
		for r := 0; r < counts[i]; r++ {
			rows = append(rows, []amr.Cell{
				cell(combo[0]), cell(combo[1]), cell(combo[2]), cell(r % 2), cell((r / 2) % 2),
			})
		}
	}
	return mustMatrix(nodes, rows)
}

// NullScenario cycles the five-bit truth table so all features are
// mutually independent up to the remainder rows; any learned edge is a
// false positive.
func (g *Generator) NullScenario() *amr.Matrix {
	nodes := []core.NodeKey{"A", "B", "C", "D", "E"}
	rows := make([][]amr.Cell, g.cfg.Samples)
	for r := range rows {
		row := make([]amr.Cell, len(nodes))
		for j := range row {
			row[j] = cell((r >> j) & 1)
		}
		rows[r] = row
	}
	return mustMatrix(nodes, rows)
}

// WithMissing returns a copy of the matrix with cells independently
// replaced by NotTested at the given rate, using the generator's seed.
func (g *Generator) WithMissing(m *amr.Matrix, rate float64) *amr.Matrix {
	nodes := m.Nodes()
	rows := make([][]amr.Cell, m.NumSamples())
	for i := range rows {
		row := make([]amr.Cell, m.NumNodes())
		for j := range row {
			if g.rng.Float64() < rate {
				row[j] = amr.NotTested
			} else {
				row[j] = m.At(i, j)
			}
		}
		rows[i] = row
	}
	return mustMatrix(nodes, rows)
}

func mustMatrix(nodes []core.NodeKey, rows [][]amr.Cell) *amr.Matrix {
	m, err := amr.NewMatrix(nodes, rows)
	if err != nil {
		panic(err) // fixed shapes, cannot fail
	}
	return m
}
