package measurement

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/latentlab/semgen/internal/config"
)

// Loadings are kept inside this range after sampling. Note the shift-then-clip
// order: the whole sampled set is shifted so its mean hits the target, then
// each loading is clipped individually, so realized means can drift slightly
// from the nominal target when clipping is active. This is expected behavior.
const (
	loadingFloor = 0.10
	loadingCeil  = 0.99
)

// SampleLoadings draws one loading per item uniformly within the construct's
// configured range, then recenters the set on the target mean.
func SampleLoadings(c *config.ConstructConfig, rn *rand.Rand) []float64 {
	low := max(loadingFloor, min(c.LoadingMin, c.LoadingMax))
	high := min(loadingCeil, max(c.LoadingMin, c.LoadingMax))

	loadings := make([]float64, c.Items)
	for i := range loadings {
		loadings[i] = low + (high-low)*rn.Float64()
	}

	shift := c.LoadingMean - stat.Mean(loadings, nil)
	for i := range loadings {
		loadings[i] = clip(loadings[i]+shift, loadingFloor, loadingCeil)
	}
	return loadings
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
