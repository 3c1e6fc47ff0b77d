package causal

import (
	"sort"

	"github.com/MK-vet/bact-mdr-profiler/domain/core"
)

// Pair is an unordered node pair in canonical order (A < B).
type Pair struct {
	A int
	B int
}

// NewPair returns the canonical pair for two node indices.
func NewPair(i, j int) Pair {
	if i > j {
		i, j = j, i
	}
	return Pair{A: i, B: j}
}

// Other returns the endpoint of p that is not i.
func (p Pair) Other(i int) int {
	if p.A == i {
		return p.B
	}
	return p.A
}

// Less orders pairs lexicographically; the skeleton learner and the
// assembler both rely on this ordering for reproducibility.
func (p Pair) Less(q Pair) bool {
	if p.A != q.A {
		return p.A < q.A
	}
	return p.B < q.B
}

// SortPairs sorts pairs into canonical lexicographic order in place.
func SortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Less(pairs[j]) })
}

// TestMethod names the statistic an independence test used.
type TestMethod string

const (
	MethodChiSquare   TestMethod = "chi_square"
	MethodFisherExact TestMethod = "fisher_exact"
	MethodCMH         TestMethod = "cmh"
)

// TestRecord is the provenance of one conducted independence test.
// Records are append-only during skeleton learning; the multiplicity
// corrector fills AdjustedP and Significant afterwards.
type TestRecord struct {
	NodeA        core.NodeKey   `json:"node_a"`
	NodeB        core.NodeKey   `json:"node_b"`
	CondSet      []core.NodeKey `json:"cond_set,omitempty"`
	Level        int            `json:"level"` // conditioning set size
	Method       TestMethod     `json:"method"`
	Statistic    float64        `json:"statistic"`
	PValue       float64        `json:"p_value"`
	AdjustedP    float64        `json:"adjusted_p"`
	Significant  bool           `json:"significant"`
	SampleSize   int            `json:"sample_size"` // effective n after missing-data exclusion
	StrataPooled int            `json:"strata_pooled"`
	Inconclusive bool           `json:"inconclusive"`

	// Engine-internal indices; mirror NodeA/NodeB/CondSet under the
	// run's sorted node ordering.
	Pair        Pair  `json:"-"`
	CondIndices []int `json:"-"`
}

// SepSetTable maps removed edges to the conditioning set that rendered
// them independent. An entry is immutable once written; edges present
// in the final skeleton never have an entry.
type SepSetTable struct {
	sets map[Pair][]int
}

// NewSepSetTable creates an empty table.
func NewSepSetTable() *SepSetTable {
	return &SepSetTable{sets: make(map[Pair][]int)}
}

// Record stores the separating set for a removed edge. The first write
// wins; later writes for the same pair are ignored.
func (t *SepSetTable) Record(p Pair, sep []int) {
	if _, exists := t.sets[p]; exists {
		return
	}
	t.sets[p] = append([]int(nil), sep...)
}

// Get returns the separating set recorded for a pair, if any.
func (t *SepSetTable) Get(p Pair) ([]int, bool) {
	s, ok := t.sets[p]
	return s, ok
}

// Contains reports whether node k is in the separating set for p.
// A pair with no entry has an empty separating set.
func (t *SepSetTable) Contains(p Pair, k int) bool {
	for _, s := range t.sets[p] {
		if s == k {
			return true
		}
	}
	return false
}

// Len returns the number of recorded separating sets.
func (t *SepSetTable) Len() int { return len(t.sets) }

// EdgeOrientationLabel is the export form of an edge decision.
type EdgeOrientationLabel string

const (
	OrientationRemoved    EdgeOrientationLabel = "removed"
	OrientationUndirected EdgeOrientationLabel = "undirected"
	OrientationForward    EdgeOrientationLabel = "a->b"
	OrientationBackward   EdgeOrientationLabel = "b->a"
)

// EdgeDecision is one row of the per-edge decision table exported for
// the surrounding pipeline. AdjustedP is NaN when no conclusive test
// was conducted for the pair.
type EdgeDecision struct {
	NodeA       core.NodeKey         `json:"node_a"`
	NodeB       core.NodeKey         `json:"node_b"`
	Orientation EdgeOrientationLabel `json:"orientation"`
	AdjustedP   float64              `json:"adjusted_p"`
	SepSet      []core.NodeKey       `json:"sep_set,omitempty"`
}

// OrientationConflict records an edge two v-structures tried to orient
// in opposite directions. The edge stays undirected.
type OrientationConflict struct {
	Edge     Pair           `json:"-"`
	NodeA    core.NodeKey   `json:"node_a"`
	NodeB    core.NodeKey   `json:"node_b"`
	Triples  []core.NodeKey `json:"triples"` // third nodes of the conflicting triples
	Resolved string         `json:"resolved"`
}

// MotifCount is one connected-subgraph isomorphism class tally from the
// motif census over the learned skeleton.
type MotifCount struct {
	Motif string `json:"motif"` // e.g. "n3_e2_(2,1,1)"
	Count int    `json:"count"`
}
