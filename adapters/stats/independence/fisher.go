package independence

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// fisherExact computes the two-sided Fisher exact test for a 2x2 table,
// conditioning on both margins. The reported statistic is the sample
// odds ratio with Haldane correction so it stays finite for tables with
// empty cells. The two-sided p-value sums the probabilities of all
// tables at least as extreme as the observed one.
func fisherExact(tb table2x2) (oddsRatio, pValue float64) {
	oddsRatio = (float64(tb.a) + 0.5) * (float64(tb.d) + 0.5) /
		((float64(tb.b) + 0.5) * (float64(tb.c) + 0.5))

	r0 := tb.a + tb.b
	r1 := tb.c + tb.d
	c0 := tb.a + tb.c
	n := tb.total()
	if n == 0 {
		return oddsRatio, 1.0
	}

	// Hypergeometric log-pmf of cell a given fixed margins.
	logDenom := combin.LogGeneralizedBinomial(float64(n), float64(c0))
	logPmf := func(a int) float64 {
		return combin.LogGeneralizedBinomial(float64(r0), float64(a)) +
			combin.LogGeneralizedBinomial(float64(r1), float64(c0-a)) -
			logDenom
	}

	lo := c0 - r1
	if lo < 0 {
		lo = 0
	}
	hi := c0
	if r0 < hi {
		hi = r0
	}

	pObs := math.Exp(logPmf(tb.a))
	// Relative tolerance keeps ties with the observed table in the sum
	// despite floating-point noise in the log-pmf.
	const eps = 1e-7
	pValue = 0
	for a := lo; a <= hi; a++ {
		if p := math.Exp(logPmf(a)); p <= pObs*(1+eps) {
			pValue += p
		}
	}
	if pValue > 1 {
		pValue = 1
	}
	return oddsRatio, pValue
}
