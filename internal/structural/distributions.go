package structural

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/latentlab/semgen/internal/config"
)

// epsSD is the floor added to standard deviations before division so that
// constant columns never produce NaN or Inf downstream.
const epsSD = 1e-8

// sampleExogenous draws n latent scores for a construct with no structural
// parents, using its configured distribution family. All families draw from
// the shared run generator to preserve reproducibility.
func sampleExogenous(c *config.ConstructConfig, n int, rn *rand.Rand) []float64 {
	mean, sd := c.LatentMean, c.LatentSD
	out := make([]float64, n)

	switch c.Distribution {
	case config.DistUniform:
		// Half-width sqrt(3)*sd matches the variance of a normal with that sd.
		half := math.Sqrt(3) * sd
		d := distuv.Uniform{Min: mean - half, Max: mean + half, Src: rn}
		for i := range out {
			out[i] = d.Rand()
		}

	case config.DistLognormal:
		d := distuv.LogNormal{Mu: mean, Sigma: math.Abs(sd), Src: rn}
		for i := range out {
			out[i] = d.Rand()
		}

	case config.DistSkewed:
		skew := clip(c.Skew, -2, 2)
		for i := range out {
			b := rn.NormFloat64()
			if skew >= 0 {
				out[i] = math.Exp(skew * b)
			} else {
				out[i] = -math.Exp(-skew * b)
			}
		}
		standardize(out)
		rescale(out, mean, sd)

	case config.DistBeta:
		d := distuv.Beta{Alpha: 2, Beta: 2, Src: rn}
		for i := range out {
			out[i] = d.Rand()
		}
		standardize(out)
		rescale(out, mean, sd)

	default: // normal
		d := distuv.Normal{Mu: mean, Sigma: sd, Src: rn}
		for i := range out {
			out[i] = d.Rand()
		}
	}
	return out
}

// standardize z-scores the slice in place with an epsilon-floored sd.
func standardize(v []float64) {
	mean, sd := stat.MeanStdDev(v, nil)
	if math.IsNaN(sd) {
		sd = 0
	}
	den := sd + epsSD
	for i := range v {
		v[i] = (v[i] - mean) / den
	}
}

// rescale maps a standardized slice to the given mean and sd in place.
func rescale(v []float64, mean, sd float64) {
	for i := range v {
		v[i] = mean + sd*v[i]
	}
}

func clip(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
