package causal

import (
	"reflect"
	"testing"
)

// TestNewCompleteGraph_EdgeCount verifies the candidate graph starts
// fully connected.
func TestNewCompleteGraph_EdgeCount(t *testing.T) {
	g := NewCompleteGraph(5)
	if g.NumEdges() != 10 {
		t.Errorf("Expected 10 edges in K5, got %d", g.NumEdges())
	}
	for i := 0; i < 5; i++ {
		if g.Degree(i) != 4 {
			t.Errorf("Expected degree 4 for node %d, got %d", i, g.Degree(i))
		}
	}
	if g.HasEdge(2, 2) {
		t.Error("Self-loops must not exist")
	}
}

// TestGraph_RemoveEdge verifies removal is symmetric and repeatable.
func TestGraph_RemoveEdge(t *testing.T) {
	g := NewCompleteGraph(4)
	g.RemoveEdge(1, 3)
	if g.HasEdge(1, 3) || g.HasEdge(3, 1) {
		t.Error("Edge removal must apply in both directions")
	}
	g.RemoveEdge(1, 3) // idempotent
	if g.NumEdges() != 5 {
		t.Errorf("Expected 5 edges after one removal from K4, got %d", g.NumEdges())
	}
}

// TestGraph_NeighborsAscending verifies the deterministic neighbor order
// the skeleton search relies on.
func TestGraph_NeighborsAscending(t *testing.T) {
	g := NewEmptyGraph(6)
	g.AddEdge(4, 2)
	g.AddEdge(4, 0)
	g.AddEdge(4, 5)

	got := g.Neighbors(4)
	want := []int{0, 2, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected neighbors %v, got %v", want, got)
	}
}

// TestGraph_EdgesCanonicalOrder verifies Edges lists canonical pairs
// sorted lexicographically.
func TestGraph_EdgesCanonicalOrder(t *testing.T) {
	g := NewEmptyGraph(4)
	g.AddEdge(3, 1)
	g.AddEdge(2, 0)
	g.AddEdge(1, 0)

	got := g.Edges()
	want := []Pair{{A: 0, B: 1}, {A: 0, B: 2}, {A: 1, B: 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected edges %v, got %v", want, got)
	}
}

// TestGraph_CloneIsIndependent verifies level snapshots are frozen.
func TestGraph_CloneIsIndependent(t *testing.T) {
	g := NewCompleteGraph(3)
	snapshot := g.Clone()
	g.RemoveEdge(0, 1)

	if !snapshot.HasEdge(0, 1) {
		t.Error("Mutating the live graph must not change the snapshot")
	}
	if g.HasEdge(0, 1) {
		t.Error("Removal must apply to the live graph")
	}
}
