package independence

import (
	"sort"
)

// cmhStatistic pools 2x2 tables across strata into the Cochran-Mantel-
// Haenszel conditional independence statistic (1 df). Strata with fewer
// than two observations or a zero margin carry no information and are
// excluded from pooling. ok is false when no usable stratum remains or
// the pooled variance is nonpositive; callers must treat that as
// inconclusive, not as independence.
func cmhStatistic(strata map[int]*table2x2) (stat float64, pooledN, used int, ok bool) {
	keys := make([]int, 0, len(strata))
	for k := range strata {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var num, den float64
	for _, k := range keys {
		tb := strata[k]
		n := tb.total()
		if n < 2 || tb.degenerate() {
			continue
		}
		fn := float64(n)
		r0 := float64(tb.a + tb.b)
		r1 := float64(tb.c + tb.d)
		c0 := float64(tb.a + tb.c)
		c1 := float64(tb.b + tb.d)

		num += float64(tb.a) - r0*c0/fn
		den += r0 * r1 * c0 * c1 / (fn * fn * (fn - 1))
		pooledN += n
		used++
	}

	if used == 0 || den <= 0 {
		return 0, pooledN, used, false
	}
	return num * num / den, pooledN, used, true
}
