package causal

import (
	"errors"

	"github.com/MK-vet/bact-mdr-profiler/domain/core"
)

var (
	// ErrNoSuchEdge is returned by [CPDAG.Orient] when the endpoints are
	// not adjacent in the skeleton.
	ErrNoSuchEdge = errors.New("edge not present in skeleton")

	// ErrEdgeConflict is returned by [CPDAG.Orient] when the opposite
	// direction is already fixed. The caller leaves the edge as is and
	// records the conflict; it is never resolved by overwriting.
	ErrEdgeConflict = errors.New("conflicting edge orientation")

	// ErrWouldCreateCycle is returned by [CPDAG.Orient] when the requested
	// direction would close a directed cycle. Acyclicity takes priority
	// over completeness of orientation, so callers skip the orientation.
	ErrWouldCreateCycle = errors.New("orientation would create a directed cycle")
)

// edgeMark is the orientation state of one skeleton edge, expressed
// relative to the canonical pair order (A < B).
type edgeMark int8

const (
	markUndirected edgeMark = iota
	markForward             // A -> B
	markBackward            // B -> A
)

// CPDAG is the engine's terminal structure: the learned skeleton with
// each edge either undirected or directed. Invariants: no edge is
// directed both ways, and the directed subgraph is acyclic.
type CPDAG struct {
	nodes []core.NodeKey
	edges map[Pair]edgeMark
}

// NewCPDAG freezes a skeleton into a CPDAG with every edge undirected.
func NewCPDAG(nodes []core.NodeKey, skeleton *Graph) *CPDAG {
	g := &CPDAG{
		nodes: append([]core.NodeKey(nil), nodes...),
		edges: make(map[Pair]edgeMark),
	}
	for _, p := range skeleton.Edges() {
		g.edges[p] = markUndirected
	}
	return g
}

// Nodes returns the node keys in the run's canonical order.
func (g *CPDAG) Nodes() []core.NodeKey {
	return append([]core.NodeKey(nil), g.nodes...)
}

// NumNodes returns the node count.
func (g *CPDAG) NumNodes() int { return len(g.nodes) }

// Adjacent reports whether i and j share an edge of any orientation.
func (g *CPDAG) Adjacent(i, j int) bool {
	if i == j {
		return false
	}
	_, ok := g.edges[NewPair(i, j)]
	return ok
}

// HasDirected reports whether the edge tail->head exists with exactly
// that direction.
func (g *CPDAG) HasDirected(tail, head int) bool {
	p := NewPair(tail, head)
	mark, ok := g.edges[p]
	if !ok {
		return false
	}
	if tail < head {
		return mark == markForward
	}
	return mark == markBackward
}

// IsUndirected reports whether i and j share an undirected edge.
func (g *CPDAG) IsUndirected(i, j int) bool {
	mark, ok := g.edges[NewPair(i, j)]
	return ok && mark == markUndirected
}

// AdjacentNodes returns all neighbors of i (any orientation), ascending.
func (g *CPDAG) AdjacentNodes(i int) []int {
	var out []int
	for j := range g.nodes {
		if g.Adjacent(i, j) {
			out = append(out, j)
		}
	}
	return out
}

// Parents returns nodes j with a directed edge j->i, ascending.
func (g *CPDAG) Parents(i int) []int {
	var out []int
	for j := range g.nodes {
		if g.HasDirected(j, i) {
			out = append(out, j)
		}
	}
	return out
}

// Children returns nodes j with a directed edge i->j, ascending.
func (g *CPDAG) Children(i int) []int {
	var out []int
	for j := range g.nodes {
		if g.HasDirected(i, j) {
			out = append(out, j)
		}
	}
	return out
}

// Orient fixes the edge between tail and head as tail->head.
// Orienting an edge already directed the same way is a no-op. The two
// CPDAG invariants are enforced here: a conflicting direction returns
// ErrEdgeConflict and a direction that would close a directed cycle
// returns ErrWouldCreateCycle, in both cases leaving the graph unchanged.
func (g *CPDAG) Orient(tail, head int) error {
	p := NewPair(tail, head)
	mark, ok := g.edges[p]
	if !ok {
		return ErrNoSuchEdge
	}

	want := markForward
	if tail > head {
		want = markBackward
	}
	if mark == want {
		return nil
	}
	if mark != markUndirected {
		return ErrEdgeConflict
	}
	if g.reachableDirected(head, tail) {
		return ErrWouldCreateCycle
	}
	g.edges[p] = want
	return nil
}

// reachableDirected reports whether a directed path from src to dst exists.
func (g *CPDAG) reachableDirected(src, dst int) bool {
	if src == dst {
		return true
	}
	seen := make([]bool, len(g.nodes))
	stack := []int{src}
	seen[src] = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range g.Children(cur) {
			if next == dst {
				return true
			}
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

// DirectedEdge is one oriented edge as (tail, head) node indices.
type DirectedEdge struct {
	Tail int
	Head int
}

// DirectedEdges lists all oriented edges sorted by canonical pair order.
func (g *CPDAG) DirectedEdges() []DirectedEdge {
	var pairs []Pair
	for p, mark := range g.edges {
		if mark != markUndirected {
			pairs = append(pairs, p)
		}
	}
	SortPairs(pairs)
	out := make([]DirectedEdge, 0, len(pairs))
	for _, p := range pairs {
		if g.edges[p] == markForward {
			out = append(out, DirectedEdge{Tail: p.A, Head: p.B})
		} else {
			out = append(out, DirectedEdge{Tail: p.B, Head: p.A})
		}
	}
	return out
}

// UndirectedEdges lists all undirected edges sorted by canonical pair order.
func (g *CPDAG) UndirectedEdges() []Pair {
	var out []Pair
	for p, mark := range g.edges {
		if mark == markUndirected {
			out = append(out, p)
		}
	}
	SortPairs(out)
	return out
}

// Edges lists every skeleton edge sorted by canonical pair order.
func (g *CPDAG) Edges() []Pair {
	out := make([]Pair, 0, len(g.edges))
	for p := range g.edges {
		out = append(out, p)
	}
	SortPairs(out)
	return out
}

// Validate checks the two CPDAG invariants. The single-mark edge
// representation rules out bidirected edges structurally, so this
// verifies acyclicity of the directed subgraph using depth-first
// search with white/gray/black coloring.
func (g *CPDAG) Validate() error {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(g.nodes))
	var hasCycle bool

	var dfs func(i int)
	dfs = func(i int) {
		color[i] = gray
		for _, child := range g.Children(i) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
				return
			}
		}
		color[i] = black
	}

	for i := range g.nodes {
		if color[i] == white {
			dfs(i)
			if hasCycle {
				return ErrWouldCreateCycle
			}
		}
	}
	return nil
}
