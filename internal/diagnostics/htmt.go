package diagnostics

import "math"

// HTMT computes the heterotrait-monotrait ratio (Henseler et al. 2015) for
// two item blocks: the mean absolute cross-block correlation divided by the
// geometric mean of the two within-block mean absolute off-diagonal
// correlations. The within-block means exclude the diagonal by index, never
// by filtering on the correlation value, so a legitimately high inter-item
// correlation cannot bias the denominator.
//
// NaN when either block has no off-diagonal pairs or a non-positive
// within-block mean.
func HTMT(aCols, bCols [][]float64) float64 {
	het := meanAbsCross(aCols, bCols)
	if math.IsNaN(het) {
		return math.NaN()
	}
	monoA := meanAbsOffDiagonal(aCols)
	monoB := meanAbsOffDiagonal(bCols)
	if math.IsNaN(monoA) || math.IsNaN(monoB) || monoA <= 0 || monoB <= 0 {
		return math.NaN()
	}
	return het / math.Sqrt(monoA*monoB)
}

// meanAbsCross averages |corr| over every cross-block item pair, skipping
// undefined correlations.
func meanAbsCross(aCols, bCols [][]float64) float64 {
	sum, cnt := 0.0, 0
	for _, a := range aCols {
		for _, b := range bCols {
			r := correlation(a, b)
			if math.IsNaN(r) {
				continue
			}
			sum += math.Abs(r)
			cnt++
		}
	}
	if cnt == 0 {
		return math.NaN()
	}
	return sum / float64(cnt)
}

// meanAbsOffDiagonal averages |corr| over distinct within-block item pairs
// (i < j).
func meanAbsOffDiagonal(cols [][]float64) float64 {
	sum, cnt := 0.0, 0
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			r := correlation(cols[i], cols[j])
			if math.IsNaN(r) {
				continue
			}
			sum += math.Abs(r)
			cnt++
		}
	}
	if cnt == 0 {
		return math.NaN()
	}
	return sum / float64(cnt)
}
