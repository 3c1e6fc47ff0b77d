package amr

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/MK-vet/bact-mdr-profiler/domain/core"
)

// Cell is one observation for one isolate and one resistance feature.
// NotTested is a first-class value and is never coerced to Susceptible.
type Cell int8

const (
	NotTested   Cell = -1
	Susceptible Cell = 0
	Resistant   Cell = 1
)

// Observed reports whether the cell carries a tested value.
func (c Cell) Observed() bool {
	return c == Susceptible || c == Resistant
}

// String returns the S/R/NT display form used in exports.
func (c Cell) String() string {
	switch c {
	case Susceptible:
		return "S"
	case Resistant:
		return "R"
	default:
		return "NT"
	}
}

// Matrix is the read-only observation matrix for one discovery run:
// rows are isolates, columns are resistance features. Column order is
// the order the caller supplied; the discovery engine imposes its own
// sorted node ordering on top of the column index.
type Matrix struct {
	nodes []core.NodeKey
	index map[core.NodeKey]int
	cells [][]Cell
}

// NodeProfile summarizes one feature column for diagnostics and
// degenerate-input detection.
type NodeProfile struct {
	Node          core.NodeKey `json:"node"`
	SampleCount   int          `json:"sample_count"`
	ObservedCount int          `json:"observed_count"`
	MissingRate   float64      `json:"missing_rate"`
	Prevalence    float64      `json:"prevalence"` // resistant share among observed
}

// NewMatrix builds a matrix over the given feature columns.
// Every row must have exactly one cell per node and node keys must be unique.
func NewMatrix(nodes []core.NodeKey, rows [][]Cell) (*Matrix, error) {
	index := make(map[core.NodeKey]int, len(nodes))
	for i, n := range nodes {
		if strings.TrimSpace(n.String()) == "" {
			return nil, core.NewDegenerateInputError("empty node key")
		}
		if _, exists := index[n]; exists {
			return nil, fmt.Errorf("%w: %s", core.ErrDuplicateNode, n)
		}
		index[n] = i
	}
	for r, row := range rows {
		if len(row) != len(nodes) {
			return nil, core.NewDegenerateInputError(
				fmt.Sprintf("row %d has %d cells, expected %d", r, len(row), len(nodes)))
		}
	}
	return &Matrix{nodes: append([]core.NodeKey(nil), nodes...), index: index, cells: rows}, nil
}

// Nodes returns a copy of the feature column keys in supply order.
func (m *Matrix) Nodes() []core.NodeKey {
	return append([]core.NodeKey(nil), m.nodes...)
}

// NodeIndex returns the column index for a node key.
func (m *Matrix) NodeIndex(key core.NodeKey) (int, bool) {
	i, ok := m.index[key]
	return i, ok
}

// NumNodes returns the number of feature columns.
func (m *Matrix) NumNodes() int { return len(m.nodes) }

// NumSamples returns the number of isolate rows.
func (m *Matrix) NumSamples() int { return len(m.cells) }

// At returns the cell for a sample row and node column.
func (m *Matrix) At(row, col int) Cell { return m.cells[row][col] }

// Column returns a copy of one feature column.
func (m *Matrix) Column(col int) []Cell {
	out := make([]Cell, len(m.cells))
	for row := range m.cells {
		out[row] = m.cells[row][col]
	}
	return out
}

// Validate rejects matrices the engine must not test: fewer than two
// nodes, no samples, or a node with no non-missing observations.
func (m *Matrix) Validate() error {
	if len(m.nodes) < 2 {
		return core.NewDegenerateInputError(
			fmt.Sprintf("need at least 2 nodes, have %d", len(m.nodes)))
	}
	if len(m.cells) == 0 {
		return core.NewDegenerateInputError("no samples")
	}
	for col, node := range m.nodes {
		observed := 0
		for row := range m.cells {
			if m.cells[row][col].Observed() {
				observed++
			}
		}
		if observed == 0 {
			return core.NewDegenerateInputError(
				fmt.Sprintf("node %s has no non-missing observations", node))
		}
	}
	return nil
}

// Profile computes per-node observation summaries.
func (m *Matrix) Profile() []NodeProfile {
	profiles := make([]NodeProfile, len(m.nodes))
	for col, node := range m.nodes {
		observed := make([]float64, 0, len(m.cells))
		for row := range m.cells {
			if c := m.cells[row][col]; c.Observed() {
				observed = append(observed, float64(c))
			}
		}
		prevalence := 0.0
		if len(observed) > 0 {
			// Mean of 0/1 observations is the resistant share.
			prevalence, _ = stats.Mean(observed)
		}
		missing := 0.0
		if len(m.cells) > 0 {
			missing = float64(len(m.cells)-len(observed)) / float64(len(m.cells))
		}
		profiles[col] = NodeProfile{
			Node:          node,
			SampleCount:   len(m.cells),
			ObservedCount: len(observed),
			MissingRate:   missing,
			Prevalence:    prevalence,
		}
	}
	return profiles
}

// Hash fingerprints the node order and every cell value.
func (m *Matrix) Hash() core.DataHash {
	var data strings.Builder
	for _, n := range m.nodes {
		data.WriteString(n.String())
		data.WriteByte(0)
	}
	for _, row := range m.cells {
		for _, c := range row {
			data.WriteByte(byte(int8(c)) + 2)
		}
	}
	return core.NewDataHash([]byte(data.String()))
}
