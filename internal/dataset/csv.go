package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ReadCSV parses a headered CSV into a frame. Columns where every non-empty
// cell parses as a number become numeric (empty cells become NaN); all other
// columns become categorical.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset: empty CSV input")
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}

	raw := make([][]string, len(header))
	nrows := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: read row %d: %w", nrows+1, err)
		}
		for i := range header {
			raw[i] = append(raw[i], rec[i])
		}
		nrows++
	}

	f := New(nrows)
	for i, name := range header {
		name = strings.TrimSpace(name)
		if floats, ok := parseNumericColumn(raw[i]); ok {
			if err := f.AddNumeric(name, floats); err != nil {
				return nil, err
			}
			continue
		}
		if err := f.AddCategorical(name, raw[i]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func parseNumericColumn(cells []string) ([]float64, bool) {
	out := make([]float64, len(cells))
	seen := false
	for i, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
		seen = true
	}
	// A column of only empty cells carries no numeric information.
	return out, seen
}
