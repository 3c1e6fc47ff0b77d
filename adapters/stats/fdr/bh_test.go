package fdr

import (
	"math"
	"testing"

	"github.com/MK-vet/bact-mdr-profiler/domain/causal"
)

func makeRecords(pValues ...float64) []*causal.TestRecord {
	records := make([]*causal.TestRecord, len(pValues))
	for i, p := range pValues {
		records[i] = &causal.TestRecord{PValue: p, AdjustedP: math.NaN()}
	}
	return records
}

// TestApply_StepUpMonotonization checks the adjusted values against a
// hand-computed Benjamini-Hochberg step-up.
func TestApply_StepUpMonotonization(t *testing.T) {
	// Sorted p = {0.01, 0.02, 0.03, 0.04, 0.2}, m = 5:
	// q5 = 0.2, q4 = 0.05, q3 = min(0.05, 0.05) = 0.05,
	// q2 = 0.05, q1 = min(0.05, 0.05) = 0.05.
	records := makeRecords(0.03, 0.2, 0.01, 0.04, 0.02)
	Apply(records, 0.05)

	want := map[float64]float64{
		0.01: 0.05,
		0.02: 0.05,
		0.03: 0.05,
		0.04: 0.05,
		0.2:  0.2,
	}
	for _, rec := range records {
		if math.Abs(rec.AdjustedP-want[rec.PValue]) > 1e-12 {
			t.Errorf("p=%v: expected adjusted %v, got %v", rec.PValue, want[rec.PValue], rec.AdjustedP)
		}
	}
}

// TestApply_BoundaryTieNotSignificant verifies an adjusted p-value
// exactly equal to alpha fails to reject, favoring the sparser graph.
// Exact binary fractions keep the arithmetic rounding-free.
func TestApply_BoundaryTieNotSignificant(t *testing.T) {
	// m = 4: every q_i = p_i * 4 / i lands exactly on 0.5.
	records := makeRecords(0.125, 0.25, 0.375, 0.5)
	Apply(records, 0.5)

	for _, rec := range records {
		if rec.AdjustedP != 0.5 {
			t.Fatalf("Expected adjusted p exactly 0.5, got %v", rec.AdjustedP)
		}
		if rec.Significant {
			t.Errorf("p=%v: adjusted value on the alpha boundary must not be significant", rec.PValue)
		}
	}
}

// TestApply_AdjustedNeverBelowRaw is the property the skeleton replay
// relies on: correction can only remove edges, never restore them.
func TestApply_AdjustedNeverBelowRaw(t *testing.T) {
	records := makeRecords(0.001, 0.2, 0.04, 0.51, 0.04, 0.9, 0.0001, 0.06)
	Apply(records, 0.05)

	for _, rec := range records {
		if rec.AdjustedP < rec.PValue {
			t.Errorf("Adjusted p %v fell below raw p %v", rec.AdjustedP, rec.PValue)
		}
		if rec.AdjustedP > 1 {
			t.Errorf("Adjusted p %v exceeds 1", rec.AdjustedP)
		}
	}
}

// TestApply_InconclusiveExcluded verifies inconclusive tests neither
// receive an adjusted value nor shrink the family.
func TestApply_InconclusiveExcluded(t *testing.T) {
	records := makeRecords(0.01, 0.02)
	inconclusive := &causal.TestRecord{PValue: 1.0, Inconclusive: true}
	records = append(records, inconclusive)
	Apply(records, 0.05)

	if !math.IsNaN(inconclusive.AdjustedP) {
		t.Errorf("Expected NaN adjusted p on an inconclusive record, got %v", inconclusive.AdjustedP)
	}
	if inconclusive.Significant {
		t.Error("Inconclusive records must never be significant")
	}
	// Family size is 2, not 3: q1 = min(0.02, 0.01*2) = 0.02.
	if math.Abs(records[0].AdjustedP-0.02) > 1e-12 {
		t.Errorf("Expected adjusted p 0.02 with family size 2, got %v", records[0].AdjustedP)
	}
}

// TestApply_SingleRecord keeps the raw p-value untouched.
func TestApply_SingleRecord(t *testing.T) {
	records := makeRecords(0.03)
	Apply(records, 0.05)

	if records[0].AdjustedP != 0.03 {
		t.Errorf("Expected adjusted p 0.03 for a single test, got %v", records[0].AdjustedP)
	}
	if !records[0].Significant {
		t.Error("Expected significance at p=0.03 under alpha=0.05")
	}
}

// TestApply_EmptyFamily must not panic.
func TestApply_EmptyFamily(t *testing.T) {
	Apply(nil, 0.05)
	Apply([]*causal.TestRecord{}, 0.05)
}
