package causal

import (
	"reflect"
	"testing"
)

// TestNewPair_Canonical verifies pairs always store the lower index first.
func TestNewPair_Canonical(t *testing.T) {
	if p := NewPair(3, 1); p != (Pair{A: 1, B: 3}) {
		t.Errorf("Expected canonical pair {1 3}, got %v", p)
	}
	if p := NewPair(1, 3); p.Other(1) != 3 || p.Other(3) != 1 {
		t.Error("Other must return the opposite endpoint")
	}
}

// TestSortPairs_Lexicographic verifies the run's canonical edge order.
func TestSortPairs_Lexicographic(t *testing.T) {
	pairs := []Pair{{A: 1, B: 2}, {A: 0, B: 3}, {A: 0, B: 1}}
	SortPairs(pairs)
	want := []Pair{{A: 0, B: 1}, {A: 0, B: 3}, {A: 1, B: 2}}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("Expected %v, got %v", want, pairs)
	}
}

// TestSepSetTable_FirstWriteWins verifies separating sets are immutable
// once recorded.
func TestSepSetTable_FirstWriteWins(t *testing.T) {
	table := NewSepSetTable()
	p := NewPair(0, 2)

	table.Record(p, []int{1})
	table.Record(p, []int{3}) // ignored

	sep, ok := table.Get(p)
	if !ok {
		t.Fatal("Expected a recorded separating set")
	}
	if !reflect.DeepEqual(sep, []int{1}) {
		t.Errorf("Expected first write {1} to win, got %v", sep)
	}
	if !table.Contains(p, 1) || table.Contains(p, 3) {
		t.Error("Contains must reflect the first recorded set")
	}
	if table.Len() != 1 {
		t.Errorf("Expected table length 1, got %d", table.Len())
	}
}

// TestSepSetTable_CopiesInput verifies the caller's slice cannot mutate
// a recorded set.
func TestSepSetTable_CopiesInput(t *testing.T) {
	table := NewSepSetTable()
	cond := []int{4}
	table.Record(NewPair(1, 2), cond)
	cond[0] = 9

	sep, _ := table.Get(NewPair(1, 2))
	if sep[0] != 4 {
		t.Error("Recorded separating set must be a copy of the input")
	}
}

// TestSepSetTable_MissingEntry verifies absent pairs behave as empty sets.
func TestSepSetTable_MissingEntry(t *testing.T) {
	table := NewSepSetTable()
	if _, ok := table.Get(NewPair(0, 1)); ok {
		t.Error("Expected no entry for an untouched pair")
	}
	if table.Contains(NewPair(0, 1), 2) {
		t.Error("Absent entries must not contain any node")
	}
}
