package classifier

import "sort"

// Percentile computes the p-th percentile (0..100) of values using the
// Apache Commons Math3 "legacy" estimation, equivalent to NIST method R-6:
// for sorted sample x[0..n-1], let pos = p/100*(n+1). If pos < 1, the
// result is x[0]; if pos >= n, the result is x[n-1]; otherwise linearly
// interpolate between the two samples straddling pos.
//
// values must be non-empty; callers gate on DataSufficient first.
func Percentile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	pos := p / 100.0 * float64(n+1)

	switch {
	case pos < 1:
		return sorted[0]
	case pos >= float64(n):
		return sorted[n-1]
	default:
		lower := int(pos) // 1-indexed floor
		d := pos - float64(lower)
		return sorted[lower-1] + d*(sorted[lower]-sorted[lower-1])
	}
}

// DataSufficient implements spec.md §4.2's rule: the percentile is only
// statistically meaningful when both tails have at least one sample,
// i.e. n*p/100 >= 1 and n*(1-p/100) >= 1.
func DataSufficient(n int, p float64) bool {
	if n <= 0 {
		return false
	}
	nf := float64(n)
	return nf*p/100.0 >= 1 && nf*(100-p)/100.0 >= 1
}
