package independence

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// minExpected returns the smallest expected cell count under the
// independence hypothesis. Tables with any expected count below 5 fall
// back to the Fisher exact test.
func (tb table2x2) minExpected() float64 {
	n := float64(tb.total())
	if n == 0 {
		return 0
	}
	r0 := float64(tb.a + tb.b)
	r1 := float64(tb.c + tb.d)
	c0 := float64(tb.a + tb.c)
	c1 := float64(tb.b + tb.d)

	min := math.Inf(1)
	for _, e := range []float64{r0 * c0 / n, r0 * c1 / n, r1 * c0 / n, r1 * c1 / n} {
		if e < min {
			min = e
		}
	}
	return min
}

// chiSquareYates computes the 2x2 chi-square statistic with Yates
// continuity correction and its p-value on 1 degree of freedom.
func chiSquareYates(tb table2x2) (stat, pValue float64) {
	n := float64(tb.total())
	r0 := float64(tb.a + tb.b)
	r1 := float64(tb.c + tb.d)
	c0 := float64(tb.a + tb.c)
	c1 := float64(tb.b + tb.d)

	observed := []float64{float64(tb.a), float64(tb.b), float64(tb.c), float64(tb.d)}
	expected := []float64{r0 * c0 / n, r0 * c1 / n, r1 * c0 / n, r1 * c1 / n}

	for i := range observed {
		if expected[i] <= 0 {
			continue
		}
		diff := math.Abs(observed[i]-expected[i]) - 0.5
		if diff < 0 {
			diff = 0
		}
		stat += diff * diff / expected[i]
	}
	return stat, chiSquaredSurvival(stat, 1)
}

// chiSquaredSurvival returns P(X >= stat) for a chi-squared variable
// with df degrees of freedom, clamped into [0, 1].
func chiSquaredSurvival(stat float64, df float64) float64 {
	if stat <= 0 {
		return 1.0
	}
	dist := distuv.ChiSquared{K: df}
	p := 1 - dist.CDF(stat)
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p
}
