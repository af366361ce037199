package export

import (
	"fmt"
	"html/template"
	"io"

	"github.com/latentlab/semgen/internal/dataset"
)

var codebookTmpl = template.Must(template.New("codebook").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Codebook</title></head>
<body>
<table class="semgen-codebook" border="1">
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

// WriteCodebookHTML renders the codebook as a plain HTML table.
func WriteCodebookHTML(w io.Writer, codebook *dataset.Frame) error {
	if codebook == nil {
		return fmt.Errorf("export: no codebook to write")
	}
	cols := codebook.Columns()
	rows := make([][]string, codebook.NumRows())
	for r := range rows {
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = codebook.CellString(r, col)
		}
		rows[r] = row
	}
	data := struct {
		Header []string
		Rows   [][]string
	}{Header: codebook.Names(), Rows: rows}
	return codebookTmpl.Execute(w, data)
}
