// Package independence implements the stratified conditional independence
// tests the skeleton learner runs: a 2x2 chi-square test with a Fisher
// exact fallback for sparse tables, and a Cochran-Mantel-Haenszel pooled
// statistic for non-empty conditioning sets. All tests restrict to the
// complete-case subset of the observation matrix and mark themselves
// inconclusive, never "independent", when too few observations survive
// missing-data exclusion.
package independence

import (
	"fmt"
	"math"

	"github.com/MK-vet/bact-mdr-profiler/domain/amr"
	"github.com/MK-vet/bact-mdr-profiler/domain/causal"
	"github.com/MK-vet/bact-mdr-profiler/domain/core"
)

// Config bounds the tester.
type Config struct {
	// MaxCondSize caps the conditioning set size so strata stay
	// non-degenerate.
	MaxCondSize int
	// MinSampleSize is the effective sample size (complete-case for
	// marginal tests, pooled across usable strata for CMH) below which
	// a test is marked inconclusive.
	MinSampleSize int
}

// Tester computes conditional independence tests against one matrix
// under one node ordering. It is a pure function of its inputs:
// identical calls always produce identical records.
type Tester struct {
	matrix *amr.Matrix
	nodes  []core.NodeKey // engine order
	cols   []int          // engine index -> matrix column
	cfg    Config
}

// NewTester binds a tester to a matrix. nodes gives the engine's node
// ordering; every key must exist as a matrix column.
func NewTester(matrix *amr.Matrix, nodes []core.NodeKey, cfg Config) (*Tester, error) {
	cols := make([]int, len(nodes))
	for i, key := range nodes {
		col, ok := matrix.NodeIndex(key)
		if !ok {
			return nil, core.NewUnknownNodeError(key)
		}
		cols[i] = col
	}
	return &Tester{matrix: matrix, nodes: nodes, cols: cols, cfg: cfg}, nil
}

// Test runs the independence test for nodes a and b given cond, all as
// engine node indices. The returned record carries the raw p-value, the
// effective sample size, and the inconclusive flag; adjusted p-values
// are filled in later by the multiplicity corrector.
func (t *Tester) Test(a, b int, cond []int) (causal.TestRecord, error) {
	if a == b {
		return causal.TestRecord{}, fmt.Errorf("%w: %s", core.ErrSameNode, t.nodes[a])
	}
	if err := t.checkIndex(a); err != nil {
		return causal.TestRecord{}, err
	}
	if err := t.checkIndex(b); err != nil {
		return causal.TestRecord{}, err
	}
	if len(cond) > t.cfg.MaxCondSize {
		return causal.TestRecord{}, fmt.Errorf("%w: size %d exceeds maximum %d",
			core.ErrConditioningSet, len(cond), t.cfg.MaxCondSize)
	}
	for _, c := range cond {
		if err := t.checkIndex(c); err != nil {
			return causal.TestRecord{}, err
		}
		if c == a || c == b {
			return causal.TestRecord{}, fmt.Errorf("%w: node %s overlaps the tested pair",
				core.ErrConditioningSet, t.nodes[c])
		}
	}

	rec := causal.TestRecord{
		NodeA:       t.nodes[a],
		NodeB:       t.nodes[b],
		Level:       len(cond),
		Pair:        causal.NewPair(a, b),
		CondIndices: append([]int(nil), cond...),
		AdjustedP:   math.NaN(),
	}
	for _, c := range cond {
		rec.CondSet = append(rec.CondSet, t.nodes[c])
	}

	if len(cond) == 0 {
		t.marginalTest(a, b, &rec)
	} else {
		t.stratifiedTest(a, b, cond, &rec)
	}
	return rec, nil
}

func (t *Tester) checkIndex(i int) error {
	if i < 0 || i >= len(t.nodes) {
		return fmt.Errorf("%w: index %d out of range", core.ErrUnknownNode, i)
	}
	return nil
}

// table2x2 holds the cell counts of one 2x2 contingency table with rows
// indexed by node A's value and columns by node B's value.
type table2x2 struct {
	a, b, c, d int // a=(0,0) b=(0,1) c=(1,0) d=(1,1)
}

func (tb *table2x2) add(x, y amr.Cell) {
	switch {
	case x == amr.Susceptible && y == amr.Susceptible:
		tb.a++
	case x == amr.Susceptible && y == amr.Resistant:
		tb.b++
	case x == amr.Resistant && y == amr.Susceptible:
		tb.c++
	default:
		tb.d++
	}
}

func (tb table2x2) total() int { return tb.a + tb.b + tb.c + tb.d }

// degenerate reports whether a row or column margin is zero, i.e. one
// variable is constant within the table.
func (tb table2x2) degenerate() bool {
	return tb.a+tb.b == 0 || tb.c+tb.d == 0 || tb.a+tb.c == 0 || tb.b+tb.d == 0
}

// marginalTest computes the unconditional 2x2 association test on the
// complete-case subset of the pair.
func (t *Tester) marginalTest(a, b int, rec *causal.TestRecord) {
	res := TestPair(t.matrix.Column(t.cols[a]), t.matrix.Column(t.cols[b]), t.cfg.MinSampleSize)
	rec.Method = res.Method
	rec.Statistic = res.Statistic
	rec.PValue = res.PValue
	rec.SampleSize = res.SampleSize
	rec.StrataPooled = 1
	rec.Inconclusive = res.Inconclusive
}

// stratifiedTest pools one 2x2 table per joint conditioning-value
// combination into the CMH conditional independence statistic.
func (t *Tester) stratifiedTest(a, b int, cond []int, rec *causal.TestRecord) {
	colA, colB := t.cols[a], t.cols[b]
	condCols := make([]int, len(cond))
	for i, c := range cond {
		condCols[i] = t.cols[c]
	}

	// Strata are keyed by the conditioning tuple encoded as a base-2
	// integer, giving a stable stratum order for free.
	strata := make(map[int]*table2x2)
	for row := 0; row < t.matrix.NumSamples(); row++ {
		x := t.matrix.At(row, colA)
		y := t.matrix.At(row, colB)
		if !x.Observed() || !y.Observed() {
			continue
		}
		key := 0
		complete := true
		for _, col := range condCols {
			z := t.matrix.At(row, col)
			if !z.Observed() {
				complete = false
				break
			}
			key = key<<1 | int(z)
		}
		if !complete {
			continue
		}
		tab, ok := strata[key]
		if !ok {
			tab = &table2x2{}
			strata[key] = tab
		}
		tab.add(x, y)
	}

	rec.Method = causal.MethodCMH
	stat, pooledN, used, ok := cmhStatistic(strata)
	rec.SampleSize = pooledN
	rec.StrataPooled = used
	if !ok || pooledN < t.cfg.MinSampleSize {
		rec.Inconclusive = true
		rec.PValue = 1.0
		return
	}
	rec.Statistic = stat
	rec.PValue = chiSquaredSurvival(stat, 1)
}
