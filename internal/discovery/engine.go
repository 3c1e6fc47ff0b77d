// Package discovery implements constraint-based causal structure
// discovery over binary antimicrobial resistance features: a PC-style
// skeleton search with stratified conditional independence tests,
// global false-discovery-rate control, and collider/Meek orientation,
// producing a CPDAG with full per-test provenance.
//
// The engine recovers the Markov equivalence class under a causal
// sufficiency assumption that AMR data can violate (mobile genetic
// elements, clonal structure, shared exposure); edges are conditional
// dependence relationships, not mechanistic causal claims.
package discovery

import (
	"context"
	"sort"

	"github.com/MK-vet/bact-mdr-profiler/adapters/stats/fdr"
	"github.com/MK-vet/bact-mdr-profiler/adapters/stats/independence"
	"github.com/MK-vet/bact-mdr-profiler/domain/amr"
	"github.com/MK-vet/bact-mdr-profiler/domain/causal"
	"github.com/MK-vet/bact-mdr-profiler/domain/core"
	"github.com/MK-vet/bact-mdr-profiler/internal"
	"github.com/MK-vet/bact-mdr-profiler/internal/config"
	"github.com/MK-vet/bact-mdr-profiler/internal/errors"
)

// Engine runs one causal discovery pass per call. It is stateless
// between runs; all run state lives in the learner it creates.
type Engine struct {
	cfg    config.Discovery
	logger *internal.Logger
}

// Result is the engine's public output: the CPDAG, the per-edge
// decision table for export, the full test record log, and the
// orientation conflicts surfaced for caller inspection.
type Result struct {
	RunID       core.RunID                   `json:"run_id"`
	Fingerprint core.Fingerprint             `json:"fingerprint"`
	Nodes       []core.NodeKey               `json:"nodes"`
	Graph       *causal.CPDAG                `json:"-"`
	Decisions   []causal.EdgeDecision        `json:"decisions"`
	Records     []*causal.TestRecord         `json:"records"`
	Conflicts   []causal.OrientationConflict `json:"conflicts,omitempty"`
	CreatedAt   core.Timestamp               `json:"created_at"`
}

// NewEngine validates the configuration and builds an engine.
func NewEngine(cfg config.Discovery, logger *internal.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Engine{cfg: cfg, logger: logger}, nil
}

// Run learns the CPDAG for the given observation matrix. Degenerate
// input fails before any testing begins. Identical data and
// configuration always produce a bit-identical result.
func (e *Engine) Run(ctx context.Context, matrix *amr.Matrix) (*Result, error) {
	if err := matrix.Validate(); err != nil {
		return nil, errors.Wrap(err, "observation matrix rejected")
	}

	// The run's canonical node ordering is sorted node keys, not the
	// caller's column order; every downstream index is relative to it.
	nodes := matrix.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	tester, err := independence.NewTester(matrix, nodes, independence.Config{
		MaxCondSize:   e.cfg.MaxCondSize,
		MinSampleSize: e.cfg.MinStratumSampleSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to bind independence tester")
	}

	e.logger.Info("causal discovery: %d nodes, %d samples, alpha=%v, max conditioning size %d",
		len(nodes), matrix.NumSamples(), e.cfg.Alpha, e.cfg.MaxCondSize)

	learner := newSkeletonLearner(tester, len(nodes), e.cfg, e.logger)
	if err := learner.learn(ctx); err != nil {
		return nil, errors.Wrap(err, "skeleton search aborted")
	}

	// One global BH pass over every conclusive test, then replay the
	// log so adjusted-only removals shape the authoritative skeleton.
	fdr.Apply(learner.records, e.cfg.Alpha)
	if removed := learner.applyCorrectedDecisions(); removed > 0 {
		e.logger.Info("FDR correction removed %d additional edges", removed)
	}

	inconclusive := 0
	for _, rec := range learner.records {
		if rec.Inconclusive {
			inconclusive++
		}
	}
	if inconclusive > 0 {
		e.logger.Warn("%d of %d independence tests were inconclusive (effective sample below %d)",
			inconclusive, len(learner.records), e.cfg.MinStratumSampleSize)
	}

	orienter := newOrienter(nodes, learner.graph, learner.sepsets, e.logger)
	orienter.orient()
	if err := orienter.graph.Validate(); err != nil {
		// Orient refuses cycles one edge at a time, so a dirty graph
		// here is a programming error, not a data condition.
		return nil, errors.Wrap(err, "CPDAG invariant violated")
	}

	result := assemble(nodes, matrix, e.cfg, orienter.graph, learner.sepsets, learner.records, orienter.conflicts)
	e.logger.Info("discovery complete: %d skeleton edges (%d directed), %d tests, %d conflicts",
		len(result.Graph.Edges()), len(result.Graph.DirectedEdges()), len(result.Records), len(result.Conflicts))
	return result, nil
}
