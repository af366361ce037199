package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/latentlab/semgen/internal/dataset"
)

const excelSheet = "data"

// WriteExcel writes the frame as a single-sheet xlsx workbook. Numeric cells
// stay numeric so statistical tools read them without coercion; missing cells
// stay blank.
func WriteExcel(w io.Writer, f *dataset.Frame) error {
	if f == nil {
		return fmt.Errorf("export: no data to write")
	}

	wb := excelize.NewFile()
	defer wb.Close()
	if err := wb.SetSheetName(wb.GetSheetName(0), excelSheet); err != nil {
		return fmt.Errorf("export: name sheet: %w", err)
	}

	header := make([]interface{}, f.NumCols())
	for i, name := range f.Names() {
		header[i] = name
	}
	if err := wb.SetSheetRow(excelSheet, "A1", &header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	cols := f.Columns()
	row := make([]interface{}, len(cols))
	for r := 0; r < f.NumRows(); r++ {
		for i, col := range cols {
			row[i] = excelCell(r, col)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("export: row address: %w", err)
		}
		if err := wb.SetSheetRow(excelSheet, cell, &row); err != nil {
			return fmt.Errorf("export: write row %d: %w", r, err)
		}
	}

	if _, err := wb.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func excelCell(row int, col *dataset.Column) interface{} {
	if col.Kind == dataset.Categorical {
		return col.Labels[row]
	}
	v := col.Floats[row]
	if math.IsNaN(v) {
		return nil
	}
	return v
}
