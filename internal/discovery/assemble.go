package discovery

import (
	"math"
	"slices"

	"github.com/MK-vet/bact-mdr-profiler/domain/amr"
	"github.com/MK-vet/bact-mdr-profiler/domain/causal"
	"github.com/MK-vet/bact-mdr-profiler/domain/core"
	"github.com/MK-vet/bact-mdr-profiler/internal/config"
)

// assemble packages the oriented graph, separating sets, and test log
// into the engine's public result. Pure transformation; no statistic is
// computed here.
func assemble(
	nodes []core.NodeKey,
	matrix *amr.Matrix,
	cfg config.Discovery,
	graph *causal.CPDAG,
	sepsets *causal.SepSetTable,
	records []*causal.TestRecord,
	conflicts []causal.OrientationConflict,
) *Result {
	nodeParts := make([]string, 0, len(nodes)+2)
	for _, n := range nodes {
		nodeParts = append(nodeParts, n.String())
	}
	nodeParts = append(nodeParts, matrix.Hash().String(), cfg.Fingerprint())

	return &Result{
		RunID:       core.RunID(core.NewID()),
		Fingerprint: core.ComputeFingerprint(nodeParts...),
		Nodes:       append([]core.NodeKey(nil), nodes...),
		Graph:       graph,
		Decisions:   decisionTable(nodes, graph, sepsets, records),
		Records:     records,
		Conflicts:   conflicts,
		CreatedAt:   core.Now(),
	}
}

// decisionTable emits one row per initial candidate pair, in canonical
// pair order, ready for CSV export by the surrounding pipeline.
func decisionTable(
	nodes []core.NodeKey,
	graph *causal.CPDAG,
	sepsets *causal.SepSetTable,
	records []*causal.TestRecord,
) []causal.EdgeDecision {
	n := len(nodes)
	decisions := make([]causal.EdgeDecision, 0, n*(n-1)/2)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pair := causal.Pair{A: i, B: j}
			dec := causal.EdgeDecision{
				NodeA:     nodes[i],
				NodeB:     nodes[j],
				AdjustedP: math.NaN(),
			}

			switch {
			case !graph.Adjacent(i, j):
				dec.Orientation = causal.OrientationRemoved
				sep, _ := sepsets.Get(pair)
				dec.SepSet = make([]core.NodeKey, 0, len(sep))
				for _, s := range sep {
					dec.SepSet = append(dec.SepSet, nodes[s])
				}
				dec.AdjustedP = removalAdjustedP(pair, sep, records)
			case graph.HasDirected(i, j):
				dec.Orientation = causal.OrientationForward
				dec.AdjustedP = retentionAdjustedP(pair, records)
			case graph.HasDirected(j, i):
				dec.Orientation = causal.OrientationBackward
				dec.AdjustedP = retentionAdjustedP(pair, records)
			default:
				dec.Orientation = causal.OrientationUndirected
				dec.AdjustedP = retentionAdjustedP(pair, records)
			}
			decisions = append(decisions, dec)
		}
	}
	return decisions
}

// removalAdjustedP finds the adjusted p-value of the test whose
// conditioning set was recorded as the pair's separating set.
func removalAdjustedP(pair causal.Pair, sep []int, records []*causal.TestRecord) float64 {
	for _, rec := range records {
		if rec.Pair == pair && !rec.Inconclusive && slices.Equal(rec.CondIndices, sep) {
			return rec.AdjustedP
		}
	}
	return math.NaN()
}

// retentionAdjustedP summarizes a kept edge by the largest adjusted
// p-value among its conclusive tests: the closest any conditioning set
// came to rendering the pair independent.
func retentionAdjustedP(pair causal.Pair, records []*causal.TestRecord) float64 {
	max := math.NaN()
	for _, rec := range records {
		if rec.Pair != pair || rec.Inconclusive {
			continue
		}
		if math.IsNaN(max) || rec.AdjustedP > max {
			max = rec.AdjustedP
		}
	}
	return max
}
