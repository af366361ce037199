package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/latentlab/semgen/internal/dataset"
)

// WriteCSV writes the frame as UTF-8 CSV with a header row. Missing numeric
// cells become empty fields.
func WriteCSV(w io.Writer, f *dataset.Frame) error {
	if f == nil {
		return fmt.Errorf("export: no data to write")
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Names()); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	cols := f.Columns()
	record := make([]string, len(cols))
	for row := 0; row < f.NumRows(); row++ {
		for i, col := range cols {
			record[i] = f.CellString(row, col)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: write row %d: %w", row, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
