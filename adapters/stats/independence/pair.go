package independence

import (
	"math"

	"github.com/MK-vet/bact-mdr-profiler/domain/amr"
	"github.com/MK-vet/bact-mdr-profiler/domain/causal"
)

// PairResult is the outcome of one unconditional 2x2 association test
// over aligned cell columns.
type PairResult struct {
	Method       causal.TestMethod
	Statistic    float64
	PValue       float64
	Phi          float64 // phi coefficient effect size
	SampleSize   int
	Inconclusive bool
}

// TestPair runs the marginal association test on two aligned feature
// columns: chi-square with Yates correction, or the Fisher exact test
// when any expected cell count is below 5. Rows where either cell is
// not tested are excluded. Tables with fewer than minN complete cases
// or a degenerate margin are inconclusive.
func TestPair(x, y []amr.Cell, minN int) PairResult {
	var tab table2x2
	limit := len(x)
	if len(y) < limit {
		limit = len(y)
	}
	for i := 0; i < limit; i++ {
		if x[i].Observed() && y[i].Observed() {
			tab.add(x[i], y[i])
		}
	}

	res := PairResult{
		Method:     causal.MethodChiSquare,
		SampleSize: tab.total(),
		PValue:     1.0,
	}
	if res.SampleSize < minN || tab.degenerate() {
		res.Inconclusive = true
		return res
	}

	res.Phi = phiCoefficient(tab)
	if tab.minExpected() < 5 {
		res.Method = causal.MethodFisherExact
		res.Statistic, res.PValue = fisherExact(tab)
		return res
	}
	res.Statistic, res.PValue = chiSquareYates(tab)
	return res
}

// phiCoefficient computes the 2x2 effect size (ad-bc)/sqrt of the
// marginal product, the binary analogue of Pearson's r.
func phiCoefficient(tb table2x2) float64 {
	num := float64(tb.a)*float64(tb.d) - float64(tb.b)*float64(tb.c)
	den := float64(tb.a+tb.b) * float64(tb.c+tb.d) * float64(tb.a+tb.c) * float64(tb.b+tb.d)
	if den < 1 {
		den = 1
	}
	return num / math.Sqrt(den)
}
