// Package bias applies response-behavior distortions to a finished item
// frame: careless responding, straight-lining, random responding, midpoint
// and extremity pulls, acquiescence shift, and MCAR missingness. Every
// transform is a pure function over a copy of the frame; application order is
// fixed.
package bias

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/latentlab/semgen/internal/config"
	"github.com/latentlab/semgen/internal/dataset"
	"github.com/latentlab/semgen/internal/rng"
)

// ApplyAll applies every configured bias transform to a copy of the item
// frame, in the fixed order careless -> straight-lining -> random responding
// -> midpoint -> extremity -> acquiescence -> missingness. Draws come from a
// substream derived from the run seed, so biased output is as reproducible as
// the clean data.
func ApplyAll(items *dataset.Frame, sample config.SampleConfig, cfg config.BiasConfig) *dataset.Frame {
	rn := rng.Substream(sample.Seed, rng.BiasOffset)
	out := items.Clone()
	lo, hi := sample.LikertMin, sample.LikertMax

	applyCareless(out, cfg.CarelessRate, lo, hi, rn)
	applyStraightlining(out, cfg.StraightliningRate, lo, hi, rn)
	applyRandomResponding(out, cfg.RandomResponseRate, lo, hi, rn)
	applyMidpoint(out, cfg.MidpointLevel, lo, hi)
	applyExtremity(out, cfg.ExtremeLevel, lo, hi)
	applyAcquiescence(out, cfg.AcquiescenceLevel, lo, hi)
	applyMissingness(out, cfg.MissingRate, rn)
	return out
}

// applyCareless replaces a share of random cells with uniform draws from the
// scale.
func applyCareless(f *dataset.Frame, rate float64, lo, hi int, rn *rand.Rand) {
	if rate <= 0 {
		return
	}
	cols := numericCols(f)
	if len(cols) == 0 {
		return
	}
	n := f.NumRows()
	affected := int(float64(n*len(cols)) * rate)
	for i := 0; i < affected; i++ {
		col := cols[rn.Intn(len(cols))]
		col.Floats[rn.Intn(n)] = float64(lo + rn.Intn(hi-lo+1))
	}
}

// applyStraightlining makes a share of respondents answer every item with one
// value.
func applyStraightlining(f *dataset.Frame, rate float64, lo, hi int, rn *rand.Rand) {
	if rate <= 0 {
		return
	}
	cols := numericCols(f)
	rows := sampleRows(f.NumRows(), rate, rn)
	for _, r := range rows {
		v := float64(lo + rn.Intn(hi-lo+1))
		for _, col := range cols {
			col.Floats[r] = v
		}
	}
}

// applyRandomResponding rerolls every answer of a share of respondents.
func applyRandomResponding(f *dataset.Frame, rate float64, lo, hi int, rn *rand.Rand) {
	if rate <= 0 {
		return
	}
	cols := numericCols(f)
	rows := sampleRows(f.NumRows(), rate, rn)
	for _, r := range rows {
		for _, col := range cols {
			col.Floats[r] = float64(lo + rn.Intn(hi-lo+1))
		}
	}
}

// applyMidpoint pulls every value toward the rounded scale midpoint.
func applyMidpoint(f *dataset.Frame, level float64, lo, hi int) {
	if level <= 0 {
		return
	}
	mid := math.Round(float64(lo+hi) / 2)
	mapCells(f, func(v float64) float64 {
		return clipScale(math.Round(v+level*(mid-v)), lo, hi)
	})
}

// applyExtremity pushes values away from the midpoint toward the nearer end
// of the scale.
func applyExtremity(f *dataset.Frame, level float64, lo, hi int) {
	if level <= 0 {
		return
	}
	mid := float64(lo+hi) / 2
	mapCells(f, func(v float64) float64 {
		target := float64(lo)
		if v >= mid {
			target = float64(hi)
		}
		return clipScale(math.Round(v+level*(target-v)), lo, hi)
	})
}

// applyAcquiescence shifts all responses up (or down for negative levels).
func applyAcquiescence(f *dataset.Frame, level float64, lo, hi int) {
	if level == 0 {
		return
	}
	shift := math.Round(level)
	mapCells(f, func(v float64) float64 {
		return clipScale(v+shift, lo, hi)
	})
}

// applyMissingness blanks a share of random cells (missing completely at
// random).
func applyMissingness(f *dataset.Frame, rate float64, rn *rand.Rand) {
	if rate <= 0 {
		return
	}
	cols := numericCols(f)
	if len(cols) == 0 {
		return
	}
	n := f.NumRows()
	blanks := int(float64(n*len(cols)) * rate)
	for i := 0; i < blanks; i++ {
		col := cols[rn.Intn(len(cols))]
		col.Floats[rn.Intn(n)] = math.NaN()
	}
}

func numericCols(f *dataset.Frame) []*dataset.Column {
	var out []*dataset.Column
	for _, c := range f.Columns() {
		if c.Kind == dataset.Numeric {
			out = append(out, c)
		}
	}
	return out
}

// sampleRows draws floor(n*rate) distinct row indices.
func sampleRows(n int, rate float64, rn *rand.Rand) []int {
	k := int(float64(n) * rate)
	if k > n {
		k = n
	}
	return rn.Perm(n)[:k]
}

// mapCells applies fn to every observed numeric cell.
func mapCells(f *dataset.Frame, fn func(float64) float64) {
	for _, col := range numericCols(f) {
		for i, v := range col.Floats {
			if !math.IsNaN(v) {
				col.Floats[i] = fn(v)
			}
		}
	}
}

func clipScale(v float64, lo, hi int) float64 {
	return math.Min(float64(hi), math.Max(float64(lo), v))
}
