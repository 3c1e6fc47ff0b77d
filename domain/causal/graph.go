package causal

// bitset is a fixed-capacity set of node indices.
type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

func (b bitset) set(i int)      { b[i/64] |= 1 << (uint(i) % 64) }
func (b bitset) clear(i int)    { b[i/64] &^= 1 << (uint(i) % 64) }
func (b bitset) has(i int) bool { return b[i/64]&(1<<(uint(i)%64)) != 0 }

func (b bitset) clone() bitset {
	c := make(bitset, len(b))
	copy(c, b)
	return c
}

// Graph is the undirected candidate graph over node indices 0..n-1.
// It starts fully connected and only ever loses edges; the skeleton
// learner owns all mutation.
type Graph struct {
	n   int
	adj []bitset
}

// NewCompleteGraph builds the fully connected candidate graph.
func NewCompleteGraph(n int) *Graph {
	g := &Graph{n: n, adj: make([]bitset, n)}
	for i := 0; i < n; i++ {
		g.adj[i] = newBitset(n)
		for j := 0; j < n; j++ {
			if j != i {
				g.adj[i].set(j)
			}
		}
	}
	return g
}

// NewEmptyGraph builds a graph over n nodes with no edges.
func NewEmptyGraph(n int) *Graph {
	g := &Graph{n: n, adj: make([]bitset, n)}
	for i := 0; i < n; i++ {
		g.adj[i] = newBitset(n)
	}
	return g
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int { return g.n }

// HasEdge reports whether i and j are adjacent.
func (g *Graph) HasEdge(i, j int) bool {
	if i == j || i < 0 || j < 0 || i >= g.n || j >= g.n {
		return false
	}
	return g.adj[i].has(j)
}

// AddEdge connects i and j. Used only when building non-candidate
// graphs (association networks, test fixtures).
func (g *Graph) AddEdge(i, j int) {
	if i == j {
		return
	}
	g.adj[i].set(j)
	g.adj[j].set(i)
}

// RemoveEdge disconnects i and j.
func (g *Graph) RemoveEdge(i, j int) {
	g.adj[i].clear(j)
	g.adj[j].clear(i)
}

// Degree returns the number of neighbors of i.
func (g *Graph) Degree(i int) int {
	d := 0
	for _, w := range g.adj[i] {
		for ; w != 0; w &= w - 1 {
			d++
		}
	}
	return d
}

// Neighbors returns the neighbor indices of i in ascending order.
func (g *Graph) Neighbors(i int) []int {
	var out []int
	for j := 0; j < g.n; j++ {
		if g.adj[i].has(j) {
			out = append(out, j)
		}
	}
	return out
}

// Edges lists every edge as a canonical Pair, sorted ascending.
func (g *Graph) Edges() []Pair {
	var out []Pair
	for i := 0; i < g.n; i++ {
		for j := i + 1; j < g.n; j++ {
			if g.adj[i].has(j) {
				out = append(out, Pair{A: i, B: j})
			}
		}
	}
	return out
}

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int {
	count := 0
	for i := 0; i < g.n; i++ {
		count += g.Degree(i)
	}
	return count / 2
}

// Clone returns an independent copy. Levels of the skeleton search test
// against a frozen snapshot while removals batch up against the live graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{n: g.n, adj: make([]bitset, g.n)}
	for i := range g.adj {
		c.adj[i] = g.adj[i].clone()
	}
	return c
}
