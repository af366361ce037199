package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/latentlab/semgen/internal/config"
	"github.com/latentlab/semgen/internal/dataset"
	"github.com/latentlab/semgen/internal/diagnostics"
)

// DiagnoseOptions holds flags for the diagnose command.
type DiagnoseOptions struct {
	MapPath string
}

// NewDiagnoseCommand computes reliability and validity diagnostics for a CSV
// dataset, generated by this tool or collected elsewhere.
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <dataset.csv>",
		Short: "Compute reliability diagnostics for a CSV dataset",
		Long: `Diagnose reads a CSV file of item responses and reports Cronbach's
alpha, composite reliability, AVE, construct correlations, and the HTMT
matrix. Columns are grouped into constructs by the prefix before the first
underscore (PE_01, PE_02 -> PE) unless an explicit mapping file is given
with --map.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.MapPath, "map", "", "YAML file mapping constructs to item columns")

	return cmd
}

func runDiagnose(cmd *cobra.Command, opts *DiagnoseOptions, path string) error {
	logger := newLogger(cmd)

	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer in.Close()

	frame, err := dataset.ReadCSV(in)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var constructMap []config.ConstructColumns
	if opts.MapPath != "" {
		constructMap, err = loadConstructMap(opts.MapPath)
		if err != nil {
			return err
		}
	} else {
		constructMap = diagnostics.InferConstructMap(frame.Names())
	}
	if len(constructMap) == 0 {
		return fmt.Errorf("no construct columns found in %s", path)
	}

	result, err := diagnostics.New(logger).Compute(frame, constructMap)
	if err != nil {
		return err
	}
	printDiagnostics(cmd, result)
	return nil
}

// constructMapEntry is one construct in a --map file. A YAML sequence keeps
// the construct order stable, which a plain mapping would not.
type constructMapEntry struct {
	Construct string   `yaml:"construct"`
	Columns   []string `yaml:"columns"`
}

func loadConstructMap(path string) ([]config.ConstructColumns, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read construct map: %w", err)
	}
	var entries []constructMapEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse construct map %s: %w", path, err)
	}
	out := make([]config.ConstructColumns, 0, len(entries))
	for _, e := range entries {
		if e.Construct == "" || len(e.Columns) == 0 {
			return nil, fmt.Errorf("construct map %s: every entry needs a construct name and at least one column", path)
		}
		out = append(out, config.ConstructColumns{Construct: e.Construct, Columns: e.Columns})
	}
	return out, nil
}

// printDiagnostics renders per-construct reliability statistics and the two
// construct-level matrices. Undefined statistics print as NA.
func printDiagnostics(cmd *cobra.Command, r *diagnostics.Result) {
	out := cmd.OutOrStdout()

	rel := table.NewWriter()
	rel.SetOutputMirror(out)
	rel.SetStyle(table.StyleLight)
	rel.SetTitle("Reliability")
	rel.AppendHeader(table.Row{"Construct", "Alpha", "CR", "AVE"})
	for _, name := range r.Constructs {
		rel.AppendRow(table.Row{name, fmtStat(r.Alpha[name]), fmtStat(r.CR[name]), fmtStat(r.AVE[name])})
	}
	rel.Render()

	printMatrix(cmd, "Construct correlations", r.Constructs, r.Correlations)
	printMatrix(cmd, "HTMT", r.Constructs, r.HTMT)
}

func printMatrix(cmd *cobra.Command, title string, names []string, m [][]float64) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)

	header := table.Row{""}
	for _, n := range names {
		header = append(header, n)
	}
	t.AppendHeader(header)
	for i, n := range names {
		row := table.Row{n}
		for j := range names {
			row = append(row, fmtStat(m[i][j]))
		}
		t.AppendRow(row)
	}
	t.Render()
}
