package causal

import (
	"errors"
	"reflect"
	"testing"

	"github.com/MK-vet/bact-mdr-profiler/domain/core"
)

func pathCPDAG(t *testing.T, n int) *CPDAG {
	t.Helper()
	nodes := make([]core.NodeKey, n)
	keys := []core.NodeKey{"A", "B", "C", "D", "E", "F"}
	copy(nodes, keys[:n])

	skeleton := NewEmptyGraph(n)
	for i := 0; i+1 < n; i++ {
		skeleton.AddEdge(i, i+1)
	}
	return NewCPDAG(nodes, skeleton)
}

// TestCPDAG_OrientBasics covers the no-op, conflict, and missing-edge
// behaviors of Orient.
func TestCPDAG_OrientBasics(t *testing.T) {
	g := pathCPDAG(t, 3)

	if err := g.Orient(0, 1); err != nil {
		t.Fatalf("Orient failed: %v", err)
	}
	if !g.HasDirected(0, 1) || g.HasDirected(1, 0) {
		t.Error("Expected a single direction 0 -> 1")
	}
	if g.IsUndirected(0, 1) {
		t.Error("Oriented edge must not report as undirected")
	}

	if err := g.Orient(0, 1); err != nil {
		t.Errorf("Re-orienting the same direction must be a no-op, got %v", err)
	}
	if err := g.Orient(1, 0); !errors.Is(err, ErrEdgeConflict) {
		t.Errorf("Expected ErrEdgeConflict for the opposite direction, got %v", err)
	}
	if err := g.Orient(0, 2); !errors.Is(err, ErrNoSuchEdge) {
		t.Errorf("Expected ErrNoSuchEdge for non-adjacent nodes, got %v", err)
	}
}

// TestCPDAG_OrientRefusesCycle verifies acyclicity takes priority over
// completing an orientation.
func TestCPDAG_OrientRefusesCycle(t *testing.T) {
	nodes := []core.NodeKey{"A", "B", "C"}
	skeleton := NewEmptyGraph(3)
	skeleton.AddEdge(0, 1)
	skeleton.AddEdge(1, 2)
	skeleton.AddEdge(0, 2)
	g := NewCPDAG(nodes, skeleton)

	if err := g.Orient(0, 1); err != nil {
		t.Fatalf("Orient failed: %v", err)
	}
	if err := g.Orient(1, 2); err != nil {
		t.Fatalf("Orient failed: %v", err)
	}
	if err := g.Orient(2, 0); !errors.Is(err, ErrWouldCreateCycle) {
		t.Errorf("Expected ErrWouldCreateCycle closing the triangle, got %v", err)
	}
	if !g.IsUndirected(0, 2) {
		t.Error("Refused orientation must leave the edge undirected")
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Graph must stay valid after a refused orientation: %v", err)
	}
}

// TestCPDAG_ParentsChildren verifies directional accessors.
func TestCPDAG_ParentsChildren(t *testing.T) {
	g := pathCPDAG(t, 4)
	if err := g.Orient(1, 0); err != nil {
		t.Fatalf("Orient failed: %v", err)
	}
	if err := g.Orient(1, 2); err != nil {
		t.Fatalf("Orient failed: %v", err)
	}

	if got := g.Children(1); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("Expected children [0 2], got %v", got)
	}
	if got := g.Parents(0); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("Expected parents [1], got %v", got)
	}
	if got := g.Parents(3); len(got) != 0 {
		t.Errorf("Expected no parents for node 3, got %v", got)
	}
}

// TestCPDAG_EdgeListings verifies the sorted directed/undirected views.
func TestCPDAG_EdgeListings(t *testing.T) {
	g := pathCPDAG(t, 4)
	if err := g.Orient(2, 1); err != nil {
		t.Fatalf("Orient failed: %v", err)
	}

	directed := g.DirectedEdges()
	if !reflect.DeepEqual(directed, []DirectedEdge{{Tail: 2, Head: 1}}) {
		t.Errorf("Expected directed edges [{2 1}], got %v", directed)
	}
	undirected := g.UndirectedEdges()
	if !reflect.DeepEqual(undirected, []Pair{{A: 0, B: 1}, {A: 2, B: 3}}) {
		t.Errorf("Expected undirected edges [{0 1} {2 3}], got %v", undirected)
	}
	all := g.Edges()
	if len(all) != 3 {
		t.Errorf("Expected 3 skeleton edges, got %d", len(all))
	}
}
