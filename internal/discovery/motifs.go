package discovery

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/MK-vet/bact-mdr-profiler/domain/causal"
)

// MotifCensus counts connected subgraph isomorphism classes of the
// given sizes over a learned skeleton, keyed by size, edge count, and
// descending degree sequence. The census exposes co-resistance
// architecture (triangles, stars, paths) beyond single edges.
// Sizes default to {3, 4}.
func MotifCensus(skeleton *causal.Graph, sizes ...int) []causal.MotifCount {
	if len(sizes) == 0 {
		sizes = []int{3, 4}
	}
	n := skeleton.NumNodes()
	counts := make(map[string]int)

	for _, sz := range sizes {
		if sz < 2 || sz > n {
			continue
		}
		for _, sub := range combin.Combinations(n, sz) {
			edges, degrees := inducedSubgraph(skeleton, sub)
			if !connected(sub, skeleton) {
				continue
			}
			sort.Sort(sort.Reverse(sort.IntSlice(degrees)))
			counts[fmt.Sprintf("n%d_e%d_%v", sz, edges, degrees)]++
		}
	}

	out := make([]causal.MotifCount, 0, len(counts))
	for motif, count := range counts {
		out = append(out, causal.MotifCount{Motif: motif, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Motif < out[j].Motif
	})
	return out
}

// inducedSubgraph returns the edge count and per-node degrees of the
// subgraph induced by the given node subset.
func inducedSubgraph(g *causal.Graph, sub []int) (edges int, degrees []int) {
	degrees = make([]int, len(sub))
	for i := 0; i < len(sub); i++ {
		for j := i + 1; j < len(sub); j++ {
			if g.HasEdge(sub[i], sub[j]) {
				edges++
				degrees[i]++
				degrees[j]++
			}
		}
	}
	return edges, degrees
}

// connected reports whether the induced subgraph over sub is connected.
func connected(sub []int, g *causal.Graph) bool {
	if len(sub) == 0 {
		return false
	}
	seen := make([]bool, len(sub))
	stack := []int{0}
	seen[0] = true
	visited := 1
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i := range sub {
			if !seen[i] && g.HasEdge(sub[cur], sub[i]) {
				seen[i] = true
				visited++
				stack = append(stack, i)
			}
		}
	}
	return visited == len(sub)
}
