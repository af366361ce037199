package diagnostics

import "math"

// loadingClip keeps proxy loadings away from ±1 so CR and AVE cannot
// degenerate.
const loadingClip = 0.999

// ProxyLoadings estimates per-item loadings as the correlation of each item
// with the unweighted mean composite of its construct. No factor model is
// fit; this is the standard composite-based approximation. Undefined
// correlations become 0.
func ProxyLoadings(cols [][]float64, nrows int) []float64 {
	composite := rowMeans(cols, nrows)
	loadings := make([]float64, len(cols))
	for i, col := range cols {
		r := correlation(col, composite)
		if math.IsNaN(r) {
			r = 0
		}
		loadings[i] = clip(r, -loadingClip, loadingClip)
	}
	return loadings
}

// CompositeReliability computes CR = (sum λ)² / ((sum λ)² + sum(1-λ²)).
// NaN when the denominator is zero.
func CompositeReliability(loadings []float64) float64 {
	lamSum := 0.0
	thetaSum := 0.0
	for _, lam := range loadings {
		lamSum += lam
		thetaSum += 1 - lam*lam
	}
	lamSq := lamSum * lamSum
	if lamSq+thetaSum == 0 {
		return math.NaN()
	}
	return lamSq / (lamSq + thetaSum)
}

// AVE is the mean of squared loadings.
func AVE(loadings []float64) float64 {
	if len(loadings) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, lam := range loadings {
		sum += lam * lam
	}
	return sum / float64(len(loadings))
}
