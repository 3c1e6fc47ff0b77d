// Package fdr implements Benjamini-Hochberg false-discovery-rate control
// over the full family of independence tests conducted in one discovery
// run. Correction is applied once, globally, after the final search
// level; per-level correction would inflate the false-edge-removal rate.
package fdr

import (
	"math"
	"sort"

	"github.com/MK-vet/bact-mdr-profiler/domain/causal"
)

// Apply fills AdjustedP and Significant on every conclusive record, in
// place. Inconclusive records are excluded from the family: they keep a
// NaN adjusted p-value and never count as significant, so they can
// never drive an edge removal.
//
// Significant means the independence null is rejected (the pair is
// dependent). An adjusted p-value exactly equal to alpha fails to
// reject: boundary ties resolve toward removing the edge, i.e. toward
// the sparser graph.
func Apply(records []*causal.TestRecord, alpha float64) {
	family := make([]*causal.TestRecord, 0, len(records))
	for _, r := range records {
		if r.Inconclusive {
			r.AdjustedP = math.NaN()
			r.Significant = false
			continue
		}
		family = append(family, r)
	}
	m := len(family)
	if m == 0 {
		return
	}

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	// Ties in p-value keep log order so reruns adjust identically.
	sort.SliceStable(order, func(i, j int) bool {
		return family[order[i]].PValue < family[order[j]].PValue
	})

	// Step-up: q_i = min_{j >= i} p_j * m / j, clamped to 1.
	adjusted := make([]float64, m)
	running := 1.0
	for i := m - 1; i >= 0; i-- {
		rank := i + 1
		q := family[order[i]].PValue * float64(m) / float64(rank)
		if q < running {
			running = q
		}
		adjusted[i] = running
	}

	for i, idx := range order {
		rec := family[idx]
		rec.AdjustedP = adjusted[i]
		rec.Significant = adjusted[i] < alpha
	}
}
