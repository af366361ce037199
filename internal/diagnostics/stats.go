package diagnostics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// pairwise extracts the rows where both slices are observed (non-NaN).
func pairwise(x, y []float64) ([]float64, []float64) {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}

// correlation is the Pearson correlation over pairwise-complete observations.
// Returns NaN with fewer than two complete pairs or zero variance.
func correlation(x, y []float64) float64 {
	xs, ys := pairwise(x, y)
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}

// variance is the sample variance over observed values. NaN with fewer than
// two observations.
func variance(x []float64) float64 {
	obs := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			obs = append(obs, v)
		}
	}
	if len(obs) < 2 {
		return math.NaN()
	}
	return stat.Variance(obs, nil)
}

// rowMeans returns the per-row mean over observed cells of the given columns.
// Rows with no observed cell become NaN.
func rowMeans(cols [][]float64, nrows int) []float64 {
	out := make([]float64, nrows)
	for i := 0; i < nrows; i++ {
		sum, cnt := 0.0, 0
		for _, col := range cols {
			if v := col[i]; !math.IsNaN(v) {
				sum += v
				cnt++
			}
		}
		if cnt == 0 {
			out[i] = math.NaN()
		} else {
			out[i] = sum / float64(cnt)
		}
	}
	return out
}

// completeRowSums returns the per-row sum over rows where every column is
// observed; incomplete rows become NaN.
func completeRowSums(cols [][]float64, nrows int) []float64 {
	out := make([]float64, nrows)
	for i := 0; i < nrows; i++ {
		sum := 0.0
		complete := true
		for _, col := range cols {
			v := col[i]
			if math.IsNaN(v) {
				complete = false
				break
			}
			sum += v
		}
		if complete {
			out[i] = sum
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

func clip(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
