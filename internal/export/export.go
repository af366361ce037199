// Package export serializes finished datasets and codebooks. Formats that
// would need statistical-software container libraries unavailable to this
// toolchain are registered but report ErrFormatUnavailable, so callers can
// offer them conditionally instead of failing the whole export.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/latentlab/semgen/internal/config"
	"github.com/latentlab/semgen/internal/dataset"
)

// ErrFormatUnavailable indicates a registered format that cannot be produced
// by this build.
var ErrFormatUnavailable = errors.New("export: format unavailable")

// Format names an export format.
type Format string

const (
	FormatCSV          Format = "csv"
	FormatExcel        Format = "xlsx"
	FormatExcelItems   Format = "xlsx-items"
	FormatJSON         Format = "json"
	FormatCodebookCSV  Format = "codebook"
	FormatCodebookHTML Format = "codebook-html"
	FormatSPSS         Format = "sav"
	FormatStata        Format = "dta"
	FormatRDS          Format = "rds"
)

// Formats lists every registered format in presentation order.
func Formats() []Format {
	return []Format{
		FormatCSV, FormatExcel, FormatExcelItems, FormatJSON,
		FormatCodebookCSV, FormatCodebookHTML,
		FormatSPSS, FormatStata, FormatRDS,
	}
}

// Available reports whether the format can be produced.
func Available(f Format) bool {
	switch f {
	case FormatSPSS, FormatStata, FormatRDS:
		return false
	default:
		_, known := extensions[f]
		return known
	}
}

var extensions = map[Format]string{
	FormatCSV:          "csv",
	FormatExcel:        "xlsx",
	FormatExcelItems:   "xlsx",
	FormatJSON:         "json",
	FormatCodebookCSV:  "csv",
	FormatCodebookHTML: "html",
	FormatSPSS:         "sav",
	FormatStata:        "dta",
	FormatRDS:          "rds",
}

// Extension returns the file extension for a format.
func Extension(f Format) string { return extensions[f] }

// Artifacts bundles everything an export can draw from.
type Artifacts struct {
	Model    *config.ModelConfig
	Full     *dataset.Frame
	Items    *dataset.Frame
	Codebook *dataset.Frame
}

// Write serializes one format to w. A write failure is surfaced immediately;
// there are no retry semantics.
func Write(f Format, w io.Writer, a Artifacts) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, a.Full)
	case FormatExcel:
		return WriteExcel(w, a.Full)
	case FormatExcelItems:
		// SmartPLS expects indicators only.
		return WriteExcel(w, a.Items)
	case FormatJSON:
		return WriteMetadataJSON(w, a.Model, a.Codebook)
	case FormatCodebookCSV:
		return WriteCSV(w, a.Codebook)
	case FormatCodebookHTML:
		return WriteCodebookHTML(w, a.Codebook)
	case FormatSPSS, FormatStata, FormatRDS:
		return fmt.Errorf("%w: %s requires statistical-software container support", ErrFormatUnavailable, f)
	default:
		return fmt.Errorf("export: unknown format %q", f)
	}
}
