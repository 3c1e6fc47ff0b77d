package core

import "testing"

// TestComputeFingerprint_Deterministic verifies identical parts hash
// identically and any change shows up.
func TestComputeFingerprint_Deterministic(t *testing.T) {
	a := ComputeFingerprint("alpha=0.05", "nodes=5", "hash=abc")
	b := ComputeFingerprint("alpha=0.05", "nodes=5", "hash=abc")
	if a != b {
		t.Error("Identical parts must produce identical fingerprints")
	}

	c := ComputeFingerprint("alpha=0.01", "nodes=5", "hash=abc")
	if a == c {
		t.Error("A changed part must change the fingerprint")
	}
}

// TestComputeFingerprint_PartBoundaries verifies parts are delimited,
// not concatenated.
func TestComputeFingerprint_PartBoundaries(t *testing.T) {
	a := ComputeFingerprint("ab", "c")
	b := ComputeFingerprint("a", "bc")
	if a == b {
		t.Error("Different part boundaries must produce different fingerprints")
	}

	c := ComputeFingerprint("ab", "c")
	d := ComputeFingerprint("c", "ab")
	if c == d {
		t.Error("Part order must matter")
	}
}

// TestHash_Basics covers construction and comparison.
func TestHash_Basics(t *testing.T) {
	h := NewHash([]byte("payload"))
	if h.IsEmpty() {
		t.Error("Hash of data must not be empty")
	}
	if len(h.String()) != 64 {
		t.Errorf("Expected a 64-character hex digest, got %d", len(h.String()))
	}
	if !h.Equals(NewHash([]byte("payload"))) {
		t.Error("Equal data must hash equal")
	}
	if h.Equals(NewHash([]byte("other"))) {
		t.Error("Different data must hash different")
	}
}
