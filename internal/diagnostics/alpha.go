package diagnostics

import "math"

// CronbachAlpha computes internal consistency for a block of item columns:
//
//	alpha = k/(k-1) * (1 - sum(item variances) / variance(row sums))
//
// Undefined (NaN) for fewer than two items or zero total variance; this is a
// reportable missing value, never an error.
func CronbachAlpha(cols [][]float64, nrows int) float64 {
	k := len(cols)
	if k < 2 {
		return math.NaN()
	}

	itemVarSum := 0.0
	for _, col := range cols {
		v := variance(col)
		if math.IsNaN(v) {
			return math.NaN()
		}
		itemVarSum += v
	}

	totalVar := variance(completeRowSums(cols, nrows))
	if math.IsNaN(totalVar) || totalVar <= 0 {
		return math.NaN()
	}

	kf := float64(k)
	return (kf / (kf - 1)) * (1 - itemVarSum/totalVar)
}
