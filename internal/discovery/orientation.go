package discovery

import (
	"errors"
	"sort"

	"github.com/MK-vet/bact-mdr-profiler/domain/causal"
	"github.com/MK-vet/bact-mdr-profiler/domain/core"
	"github.com/MK-vet/bact-mdr-profiler/internal"
)

// orienter turns the frozen skeleton into a CPDAG: v-structures first,
// then Meek propagation to a fixed point. Conflicting v-structure
// directions leave the edge undirected and are logged, never silently
// resolved; orientations that would close a directed cycle are skipped.
type orienter struct {
	graph     *causal.CPDAG
	sepsets   *causal.SepSetTable
	nodes     []core.NodeKey
	logger    *internal.Logger
	conflicts []causal.OrientationConflict
}

func newOrienter(nodes []core.NodeKey, skeleton *causal.Graph, sepsets *causal.SepSetTable, logger *internal.Logger) *orienter {
	return &orienter{
		graph:   causal.NewCPDAG(nodes, skeleton),
		sepsets: sepsets,
		nodes:   nodes,
		logger:  logger,
	}
}

func (o *orienter) orient() {
	o.orientColliders()
	o.propagate()
}

// headProposal accumulates the directions v-structures want for one
// skeleton edge, with the third node of each proposing triple kept for
// conflict reporting.
type headProposal struct {
	heads     map[int][]int // desired head -> witnesses (third triple nodes)
	headOrder []int
}

// orientColliders detects unshielded triples a-c-b where c is absent
// from the separating set of (a, b), and orients both edges into c.
// All proposals are collected before any edge is oriented so that a
// conflicting pair of triples is detected rather than racing on order.
func (o *orienter) orientColliders() {
	n := o.graph.NumNodes()
	proposals := make(map[causal.Pair]*headProposal)

	propose := func(tail, head, witness int) {
		p := causal.NewPair(tail, head)
		prop, ok := proposals[p]
		if !ok {
			prop = &headProposal{heads: make(map[int][]int)}
			proposals[p] = prop
		}
		if _, seen := prop.heads[head]; !seen {
			prop.headOrder = append(prop.headOrder, head)
		}
		prop.heads[head] = append(prop.heads[head], witness)
	}

	for c := 0; c < n; c++ {
		nbrs := o.graph.AdjacentNodes(c)
		for i := 0; i < len(nbrs); i++ {
			for j := i + 1; j < len(nbrs); j++ {
				a, b := nbrs[i], nbrs[j]
				if o.graph.Adjacent(a, b) {
					continue // shielded
				}
				if o.sepsets.Contains(causal.NewPair(a, b), c) {
					continue
				}
				propose(a, c, b)
				propose(b, c, a)
			}
		}
	}

	pairs := make([]causal.Pair, 0, len(proposals))
	for p := range proposals {
		pairs = append(pairs, p)
	}
	causal.SortPairs(pairs)

	for _, p := range pairs {
		prop := proposals[p]
		if len(prop.headOrder) > 1 {
			o.recordConflict(p, prop)
			continue
		}
		head := prop.headOrder[0]
		tail := p.Other(head)
		if err := o.graph.Orient(tail, head); err != nil {
			if errors.Is(err, causal.ErrWouldCreateCycle) {
				o.logger.Warn("skipped collider orientation %s -> %s: would create a directed cycle",
					o.nodes[tail], o.nodes[head])
				continue
			}
			o.logger.Warn("skipped collider orientation %s -> %s: %v", o.nodes[tail], o.nodes[head], err)
		}
	}
}

func (o *orienter) recordConflict(p causal.Pair, prop *headProposal) {
	witnesses := make([]int, 0)
	for _, head := range prop.headOrder {
		witnesses = append(witnesses, prop.heads[head]...)
	}
	sort.Ints(witnesses)

	conflict := causal.OrientationConflict{
		Edge:     p,
		NodeA:    o.nodes[p.A],
		NodeB:    o.nodes[p.B],
		Resolved: "left undirected",
	}
	for _, w := range witnesses {
		conflict.Triples = append(conflict.Triples, o.nodes[w])
	}
	o.conflicts = append(o.conflicts, conflict)
	o.logger.Warn("conflicting v-structure orientations for edge %s - %s; leaving undirected",
		conflict.NodeA, conflict.NodeB)
}

// propagate applies Meek's orientation rules until no rule fires.
// Every application goes through CPDAG.Orient, which refuses cycles and
// reversals, so each sweep preserves both CPDAG invariants.
func (o *orienter) propagate() {
	for changed := true; changed; {
		changed = false
		if o.meekRule1() {
			changed = true
		}
		if o.meekRule2() {
			changed = true
		}
		if o.meekRule3() {
			changed = true
		}
	}
}

// tryOrient applies tail -> head, reporting whether the graph changed.
// Cycle refusals are logged at debug level; the edge stays undirected.
func (o *orienter) tryOrient(tail, head int, rule string) bool {
	if !o.graph.IsUndirected(tail, head) {
		return false
	}
	if err := o.graph.Orient(tail, head); err != nil {
		if errors.Is(err, causal.ErrWouldCreateCycle) {
			o.logger.Debug("%s: skipped %s -> %s to preserve acyclicity",
				rule, o.nodes[tail], o.nodes[head])
		}
		return false
	}
	return true
}

// meekRule1: a -> b, b - c undirected, a and c non-adjacent ==> b -> c.
// Orienting c -> b instead would create a new unshielded collider at b.
func (o *orienter) meekRule1() bool {
	changed := false
	for _, e := range o.graph.DirectedEdges() {
		a, b := e.Tail, e.Head
		for _, c := range o.graph.AdjacentNodes(b) {
			if c == a || o.graph.Adjacent(a, c) || !o.graph.IsUndirected(b, c) {
				continue
			}
			if o.tryOrient(b, c, "meek R1") {
				changed = true
			}
		}
	}
	return changed
}

// meekRule2: a -> b -> c with a - c undirected ==> a -> c, since the
// reverse direction would close a cycle through b.
func (o *orienter) meekRule2() bool {
	changed := false
	for _, p := range o.graph.UndirectedEdges() {
		for _, dir := range [][2]int{{p.A, p.B}, {p.B, p.A}} {
			a, c := dir[0], dir[1]
			for _, b := range o.graph.Children(a) {
				if o.graph.HasDirected(b, c) {
					if o.tryOrient(a, c, "meek R2") {
						changed = true
					}
					break
				}
			}
		}
	}
	return changed
}

// meekRule3: a - b undirected, and two non-adjacent nodes c, d with
// a - c, a - d undirected and c -> b, d -> b ==> a -> b. Orienting
// b -> a would force a new collider or a cycle through the chains.
func (o *orienter) meekRule3() bool {
	changed := false
	for _, p := range o.graph.UndirectedEdges() {
		for _, dir := range [][2]int{{p.A, p.B}, {p.B, p.A}} {
			a, b := dir[0], dir[1]
			var spouses []int
			for _, x := range o.graph.AdjacentNodes(a) {
				if x != b && o.graph.IsUndirected(a, x) && o.graph.HasDirected(x, b) {
					spouses = append(spouses, x)
				}
			}
			fired := false
			for i := 0; i < len(spouses) && !fired; i++ {
				for j := i + 1; j < len(spouses) && !fired; j++ {
					if !o.graph.Adjacent(spouses[i], spouses[j]) {
						if o.tryOrient(a, b, "meek R3") {
							changed = true
						}
						fired = true
					}
				}
			}
			if fired {
				break
			}
		}
	}
	return changed
}
