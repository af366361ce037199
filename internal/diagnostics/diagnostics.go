// Package diagnostics computes psychometric reliability and validity
// statistics for reflective measurement models: Cronbach's alpha, composite
// reliability, AVE, construct-level correlations, and the HTMT matrix. It
// operates on any item frame plus a construct-to-columns mapping, whether the
// data was generated by this tool or uploaded.
package diagnostics

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/latentlab/semgen/internal/config"
	"github.com/latentlab/semgen/internal/dataset"
)

// Result holds all diagnostics for one item frame. Maps are keyed by
// construct; Constructs fixes their order. Correlations and HTMT are square
// matrices indexed consistently with Constructs. NaN marks an undefined
// statistic.
type Result struct {
	Constructs   []string
	Alpha        map[string]float64
	CR           map[string]float64
	AVE          map[string]float64
	Correlations [][]float64
	HTMT         [][]float64
}

// Engine computes diagnostics.
type Engine struct {
	logger *slog.Logger
}

// New creates a diagnostics engine. A nil logger discards output.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{logger: logger}
}

// Compute runs all diagnostics. Non-numeric columns are coerced cell by cell
// (unparseable cells become missing); rows that are missing across every
// mapped column are dropped. A degenerate construct (fewer than two valid
// items, zero variance) yields NaN for its own statistics without affecting
// the others.
func (e *Engine) Compute(items *dataset.Frame, constructMap []config.ConstructColumns) (*Result, error) {
	if len(constructMap) == 0 {
		return nil, fmt.Errorf("diagnostics: construct map is empty")
	}

	blocks := make([][][]float64, len(constructMap))
	nrows := items.NumRows()
	for i, cc := range constructMap {
		cols := make([][]float64, 0, len(cc.Columns))
		for _, name := range cc.Columns {
			col, ok := items.Column(name)
			if !ok {
				return nil, fmt.Errorf("diagnostics: construct %q references unknown column %q", cc.Construct, name)
			}
			cols = append(cols, coerceNumeric(col))
		}
		blocks[i] = cols
	}
	blocks, nrows = dropEmptyRows(blocks, nrows)

	res := &Result{
		Alpha: make(map[string]float64, len(constructMap)),
		CR:    make(map[string]float64, len(constructMap)),
		AVE:   make(map[string]float64, len(constructMap)),
	}

	composites := make([][]float64, len(constructMap))
	for i, cc := range constructMap {
		res.Constructs = append(res.Constructs, cc.Construct)
		cols := blocks[i]

		alpha := CronbachAlpha(cols, nrows)
		loadings := ProxyLoadings(cols, nrows)
		res.Alpha[cc.Construct] = alpha
		res.CR[cc.Construct] = CompositeReliability(loadings)
		res.AVE[cc.Construct] = AVE(loadings)
		composites[i] = rowMeans(cols, nrows)

		if math.IsNaN(alpha) {
			e.logger.Debug("reliability undefined", "construct", cc.Construct, "items", len(cols))
		}
	}

	k := len(constructMap)
	res.Correlations = squareMatrix(k)
	res.HTMT = squareMatrix(k)
	for i := 0; i < k; i++ {
		res.Correlations[i][i] = 1
		res.HTMT[i][i] = 1
		for j := i + 1; j < k; j++ {
			r := correlation(composites[i], composites[j])
			res.Correlations[i][j] = r
			res.Correlations[j][i] = r

			h := HTMT(blocks[i], blocks[j])
			res.HTMT[i][j] = h
			res.HTMT[j][i] = h
		}
	}
	return res, nil
}

func squareMatrix(k int) [][]float64 {
	m := make([][]float64, k)
	for i := range m {
		m[i] = make([]float64, k)
	}
	return m
}

// coerceNumeric converts a column to float64 values; categorical cells that
// do not parse as numbers become NaN.
func coerceNumeric(col *dataset.Column) []float64 {
	if col.Kind == dataset.Numeric {
		return col.Floats
	}
	out := make([]float64, len(col.Labels))
	for i, s := range col.Labels {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
	}
	return out
}

// dropEmptyRows removes rows where every mapped cell is missing.
func dropEmptyRows(blocks [][][]float64, nrows int) ([][][]float64, int) {
	keep := make([]int, 0, nrows)
	for i := 0; i < nrows; i++ {
		empty := true
		for _, cols := range blocks {
			for _, col := range cols {
				if !math.IsNaN(col[i]) {
					empty = false
					break
				}
			}
			if !empty {
				break
			}
		}
		if !empty {
			keep = append(keep, i)
		}
	}
	if len(keep) == nrows {
		return blocks, nrows
	}
	out := make([][][]float64, len(blocks))
	for b, cols := range blocks {
		newCols := make([][]float64, len(cols))
		for c, col := range cols {
			nc := make([]float64, len(keep))
			for k, row := range keep {
				nc[k] = col[row]
			}
			newCols[c] = nc
		}
		out[b] = newCols
	}
	return out, len(keep)
}
