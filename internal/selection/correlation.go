package selection

import "math"

// pearson computes the correlation of two equal-length columns.
// Zero-variance columns correlate as 0 so constant assets are never
// dropped by the filter on correlation grounds.
func pearson(a, b []float64) float64 {
	n := len(a)
	if n == 0 {
		return 0
	}
	var meanA, meanB float64
	for i := 0; i < n; i++ {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= float64(n)
	meanB /= float64(n)
	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}

// uncorrelatedIndices walks the ranked columns in order, keeping each one
// that stays below maxCorr against everything already kept. The first
// column is always kept; the walk stops at maxColumns.
func uncorrelatedIndices(columns [][]float64, maxCorr float64, maxColumns int) []int {
	if len(columns) == 0 {
		return nil
	}
	kept := []int{0}
	for i := 1; i < len(columns); i++ {
		if len(kept) >= maxColumns {
			break
		}
		ok := true
		for _, k := range kept {
			if pearson(columns[k], columns[i]) >= maxCorr {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, i)
		}
	}
	if len(kept) > maxColumns {
		kept = kept[:maxColumns]
	}
	return kept
}
