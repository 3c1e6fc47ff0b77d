package discovery

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/MK-vet/bact-mdr-profiler/adapters/stats/independence"
	"github.com/MK-vet/bact-mdr-profiler/domain/causal"
	"github.com/MK-vet/bact-mdr-profiler/internal"
	"github.com/MK-vet/bact-mdr-profiler/internal/config"
)

// skeletonLearner removes edges from the fully connected candidate
// graph level by level. It owns the candidate graph, the separating set
// table, and the test record log; nothing else mutates them.
type skeletonLearner struct {
	tester *independence.Tester
	cfg    config.Discovery
	logger *internal.Logger

	graph   *causal.Graph
	sepsets *causal.SepSetTable
	records []*causal.TestRecord
}

// edgeLevelResult is what one edge's worker produces for one level.
// Results are merged strictly in edge order after the level completes,
// so worker scheduling cannot influence the log or the graph.
type edgeLevelResult struct {
	records []*causal.TestRecord
	removed bool
	sepset  []int
}

func newSkeletonLearner(tester *independence.Tester, n int, cfg config.Discovery, logger *internal.Logger) *skeletonLearner {
	return &skeletonLearner{
		tester:  tester,
		cfg:     cfg,
		logger:  logger,
		graph:   causal.NewCompleteGraph(n),
		sepsets: causal.NewSepSetTable(),
	}
}

// learn runs the level-wise search. Tests within a level are evaluated
// in parallel against a frozen snapshot of the level-start graph;
// removals are applied in one deterministic batch per level.
func (l *skeletonLearner) learn(ctx context.Context) error {
	for k := 0; k <= l.cfg.MaxCondSize; k++ {
		// The engine either completes a level or the caller aborts the
		// whole run; there is no mid-level cancellation.
		if err := ctx.Err(); err != nil {
			return err
		}

		snapshot := l.graph.Clone()
		edges := snapshot.Edges()
		if len(edges) == 0 {
			l.logger.Debug("skeleton search stopped at level %d: no candidate edges remain", k)
			return nil
		}

		pools := make([][]int, len(edges))
		eligible := 0
		for i, e := range edges {
			pools[i] = conditioningPool(snapshot, e, k)
			if pools[i] != nil {
				eligible++
			}
		}
		if eligible == 0 {
			l.logger.Debug("skeleton search stopped at level %d: no neighborhood supports conditioning sets of size %d", k, k)
			return nil
		}

		results := make([]edgeLevelResult, len(edges))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(l.cfg.MaxParallelTests)
		for i := range edges {
			if pools[i] == nil {
				continue
			}
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				res, err := l.searchEdge(edges[i], pools[i], k)
				if err != nil {
					return err
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		removed := 0
		for i, e := range edges {
			l.records = append(l.records, results[i].records...)
			if results[i].removed {
				l.graph.RemoveEdge(e.A, e.B)
				l.sepsets.Record(e, results[i].sepset)
				removed++
			}
		}
		l.logger.Info("skeleton level %d: %d edges tested, %d removed, %d remaining",
			k, eligible, removed, l.graph.NumEdges())
	}
	return nil
}

// searchEdge tests one edge against every conditioning set of size k
// drawn from its pool, in lexicographic order, stopping at the first
// raw independence. Inconclusive tests never count as independence.
func (l *skeletonLearner) searchEdge(e causal.Pair, pool []int, k int) (edgeLevelResult, error) {
	var res edgeLevelResult

	if k == 0 {
		rec, err := l.tester.Test(e.A, e.B, nil)
		if err != nil {
			return res, err
		}
		res.records = append(res.records, &rec)
		if !rec.Inconclusive && rec.PValue > l.cfg.Alpha {
			res.removed = true
			res.sepset = []int{}
		}
		return res, nil
	}

	for _, subset := range combin.Combinations(len(pool), k) {
		cond := make([]int, k)
		for i, s := range subset {
			cond[i] = pool[s]
		}
		rec, err := l.tester.Test(e.A, e.B, cond)
		if err != nil {
			return res, err
		}
		res.records = append(res.records, &rec)
		if !rec.Inconclusive && rec.PValue > l.cfg.Alpha {
			res.removed = true
			res.sepset = cond
			break
		}
	}
	return res, nil
}

// conditioningPool selects the neighbor set conditioning sets of size k
// are drawn from: the level-start neighbors of the smaller-degree
// endpoint (ties broken toward the lower node index), excluding both
// endpoints. Returns nil when the pool cannot support size k, which at
// k=0 never happens.
func conditioningPool(snapshot *causal.Graph, e causal.Pair, k int) []int {
	endpoint := e.A
	if snapshot.Degree(e.B) < snapshot.Degree(e.A) {
		endpoint = e.B
	}

	pool := make([]int, 0, snapshot.Degree(endpoint))
	for _, nb := range snapshot.Neighbors(endpoint) {
		if nb != e.A && nb != e.B {
			pool = append(pool, nb)
		}
	}
	if len(pool) < k {
		return nil
	}
	return pool
}

// applyCorrectedDecisions replays the test log in level order after the
// global FDR pass: any conclusive test whose adjusted p-value fails to
// reject independence (adjusted p >= alpha, boundary ties removing)
// removes its edge from the final skeleton. Search-time removals always
// satisfy this criterion, so replay only ever shrinks the skeleton.
func (l *skeletonLearner) applyCorrectedDecisions() int {
	removed := 0
	for _, rec := range l.records {
		if rec.Inconclusive || rec.AdjustedP < l.cfg.Alpha {
			continue
		}
		if l.graph.HasEdge(rec.Pair.A, rec.Pair.B) {
			l.graph.RemoveEdge(rec.Pair.A, rec.Pair.B)
			l.sepsets.Record(rec.Pair, rec.CondIndices)
			removed++
		}
	}
	return removed
}
