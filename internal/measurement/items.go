// Package measurement converts continuous latent scores into discrete
// Likert-coded indicator columns via a reflective measurement model: each
// item is the latent weighted by a sampled loading plus Gaussian noise,
// discretized into equal-frequency bins.
package measurement

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"golang.org/x/exp/rand"

	"github.com/latentlab/semgen/internal/config"
	"github.com/latentlab/semgen/internal/dataset"
)

// itemLoadingCeil caps the per-item loading so the noise variance floor stays
// meaningful.
const itemLoadingCeil = 0.95

// minNoiseVar floors the item error variance.
const minNoiseVar = 1e-6

// GenerateItems produces the construct's indicator columns from its latent
// column. Every output cell lies in [likert_min, likert_max]; the trailing
// reverse_items columns are polarity-flipped.
func GenerateItems(
	c *config.ConstructConfig,
	latent []float64,
	sample config.SampleConfig,
	rn *rand.Rand,
	logger *slog.Logger,
) (*dataset.Frame, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if len(latent) != sample.Respondents {
		return nil, fmt.Errorf("measurement: latent column for %q has %d rows, want %d", c.Name, len(latent), sample.Respondents)
	}

	loadings := SampleLoadings(c, rn)
	nCat := sample.Categories()
	out := dataset.New(sample.Respondents)

	for idx, lam := range loadings {
		lam = clip(lam, loadingFloor, itemLoadingCeil)
		noiseSD := math.Sqrt(math.Max(minNoiseVar, 1-lam*lam))

		raw := make([]float64, len(latent))
		for i, v := range latent {
			raw[i] = lam*v + noiseSD*rn.NormFloat64()
		}

		codes, fellBack := likertBin(raw, nCat)
		if fellBack {
			logger.Debug("quantile binning degenerate, used rank fallback",
				"construct", c.Name, "item", idx+1)
		}

		col := make([]float64, len(codes))
		for i, code := range codes {
			v := code + sample.LikertMin
			if v < sample.LikertMin {
				v = sample.LikertMin
			}
			if v > sample.LikertMax {
				v = sample.LikertMax
			}
			col[i] = float64(v)
		}
		if err := out.AddNumeric(fmt.Sprintf("%s_%02d", c.Name, idx+1), col); err != nil {
			return nil, err
		}
	}

	reverseTrailing(out, c, sample)
	return out, nil
}

// reverseTrailing flips the polarity of the last reverse_items columns via
// likert_min + likert_max - value.
func reverseTrailing(items *dataset.Frame, c *config.ConstructConfig, sample config.SampleConfig) {
	nRev := c.ReverseItems
	if nRev <= 0 {
		return
	}
	if nRev > c.Items {
		nRev = c.Items
	}
	cols := items.Columns()
	pivot := float64(sample.LikertMin + sample.LikertMax)
	for _, col := range cols[len(cols)-nRev:] {
		for i, v := range col.Floats {
			col.Floats[i] = pivot - v
		}
	}
}

// likertBin discretizes raw scores into nCat ordered categories (0-based).
//
// Primary branch: equal-frequency binning on the empirical quantiles of raw.
// When too many quantile edges coincide (low variance, heavy ties) the
// requested bin count is unreachable; the fallback branch maps fractional
// ranks uniformly onto the categories instead. The second return value
// reports which branch ran.
func likertBin(raw []float64, nCat int) ([]int, bool) {
	edges, ok := quantileEdges(raw, nCat)
	if !ok {
		return rankBin(raw, nCat), true
	}
	codes := make([]int, len(raw))
	for i, v := range raw {
		// First edge >= v; values beyond the last edge land in the top bin.
		codes[i] = sort.SearchFloat64s(edges, v)
	}
	return codes, false
}

// quantileEdges returns the nCat-1 interior quantile edges of raw, or
// ok=false when the edges are not strictly increasing.
func quantileEdges(raw []float64, nCat int) ([]float64, bool) {
	sorted := append([]float64(nil), raw...)
	sort.Float64s(sorted)

	edges := make([]float64, 0, nCat-1)
	for i := 1; i < nCat; i++ {
		q := float64(i) / float64(nCat)
		edges = append(edges, quantileLinear(sorted, q))
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return nil, false
		}
	}
	if len(sorted) > 0 && edges[len(edges)-1] >= sorted[len(sorted)-1] {
		// Top bin would be empty.
		return nil, false
	}
	return edges, true
}

// quantileLinear computes the q-quantile of a sorted slice with linear
// interpolation between closest ranks.
func quantileLinear(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// rankBin maps average fractional ranks uniformly onto nCat categories.
func rankBin(raw []float64, nCat int) []int {
	ranks := fractionalRanks(raw)
	n := float64(len(raw))
	codes := make([]int, len(raw))
	for i, r := range ranks {
		u := (r - 0.5) / n
		code := int(math.Floor(u * float64(nCat)))
		if code < 0 {
			code = 0
		}
		if code > nCat-1 {
			code = nCat - 1
		}
		codes[i] = code
	}
	return codes
}

// fractionalRanks returns 1-based ranks with ties assigned their average
// rank.
func fractionalRanks(v []float64) []float64 {
	idx := make([]int, len(v))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return v[idx[a]] < v[idx[b]] })

	ranks := make([]float64, len(v))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && v[idx[j+1]] == v[idx[i]] {
			j++
		}
		// Average of ranks i+1..j+1.
		avg := float64(i+j+2) / 2
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}
