package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/latentlab/semgen/internal/bias"
	"github.com/latentlab/semgen/internal/config"
	"github.com/latentlab/semgen/internal/dataset"
	"github.com/latentlab/semgen/internal/diagnostics"
	"github.com/latentlab/semgen/internal/export"
	"github.com/latentlab/semgen/internal/generator"
	"github.com/latentlab/semgen/internal/session"
	"github.com/latentlab/semgen/internal/state"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	OutDir      string
	Formats     []string
	WithBias    bool
	Diagnose    bool
	NoState     bool
	Seed        int64
	Respondents int
	LikertMin   int
	LikertMax   int
}

// NewGenerateCommand runs the full synthesis pipeline and writes the
// requested export formats.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic survey dataset from the model configuration",
		Long: `Generate simulates the structural model, derives Likert indicators,
samples demographics, optionally applies response biases, and writes the
dataset in the requested formats. Every run is reproducible from its seed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", ".", "output directory")
	cmd.Flags().StringSliceVar(&opts.Formats, "formats", []string{"csv", "codebook"},
		fmt.Sprintf("export formats (%s)", formatList()))
	cmd.Flags().BoolVar(&opts.WithBias, "with-bias", false, "apply configured response biases even when all rates default to zero")
	cmd.Flags().BoolVar(&opts.Diagnose, "diagnose", false, "print reliability diagnostics for the generated items")
	cmd.Flags().BoolVar(&opts.NoState, "no-state", false, "skip recording the run in the state database")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "override the run seed")
	cmd.Flags().IntVar(&opts.Respondents, "respondents", 0, "override the number of respondents")
	cmd.Flags().IntVar(&opts.LikertMin, "likert-min", 0, "override the scale minimum")
	cmd.Flags().IntVar(&opts.LikertMax, "likert-max", 0, "override the scale maximum")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *GenerateOptions) error {
	logger := newLogger(cmd)

	model, err := loadModel(cmd)
	if err != nil {
		return err
	}

	var store *state.Store
	var run *state.Run
	if !opts.NoState {
		store, err = openState(cmd, logger)
		if err != nil {
			logger.Warn("run history unavailable", "error", err)
			store = nil
		}
	}
	if store != nil {
		defer store.Close()
		run, err = store.CreateRun(model)
		if err != nil {
			logger.Warn("could not record run", "error", err)
			run = nil
		}
	}
	finishRun := func(status state.RunStatus, msg string) {
		if run == nil {
			return
		}
		if err := store.CompleteRun(run.ID, status, msg); err != nil {
			logger.Warn("could not finalize run record", "error", err)
		}
	}

	result, err := generator.New(logger).Generate(model)
	if err != nil {
		finishRun(state.RunStatusFailed, err.Error())
		return err
	}

	if opts.WithBias || model.Bias.Enabled() {
		// Demographic columns are categorical, so the bias transforms only
		// touch item cells even when applied to the full frame.
		full := bias.ApplyAll(result.Full, model.Sample, model.Bias)
		items, err := full.Select(model.ItemColumns())
		if err != nil {
			finishRun(state.RunStatusFailed, err.Error())
			return err
		}
		result = &generator.Result{Full: full, Items: items}
	}

	// Cache the run for in-process consumers; the diagnostics step below
	// reads the frames back through the session rather than holding its own
	// reference.
	sessions := session.NewStore()
	sessionID := model.Project
	if run != nil {
		sessionID = run.ID
	}
	sessions.Put(sessionID, model, result)

	if err := writeExports(cmd, opts, model, result, logger); err != nil {
		finishRun(state.RunStatusFailed, err.Error())
		return err
	}
	finishRun(state.RunStatusCompleted, "")

	printGenerateSummary(cmd, opts, model.Project, result.Full)

	if opts.Diagnose {
		entry, ok := sessions.Get(sessionID)
		if !ok {
			return fmt.Errorf("generation result missing from session cache")
		}
		diag, err := diagnostics.New(logger).Compute(entry.Result.Items, entry.Model.ConstructMap())
		if err != nil {
			return err
		}
		printDiagnostics(cmd, diag)
	}
	return nil
}

// writeExports renders every requested format into the output directory.
// Formats that need external statistical-software support are reported and
// skipped rather than aborting the run.
func writeExports(cmd *cobra.Command, opts *GenerateOptions, model *config.ModelConfig, result *generator.Result, logger *slog.Logger) error {
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	artifacts := export.Artifacts{
		Model:    model,
		Full:     result.Full,
		Items:    result.Items,
		Codebook: export.Codebook(model),
	}

	for _, name := range opts.Formats {
		f := export.Format(strings.TrimSpace(name))
		path := outputPath(opts.OutDir, model.Project, f)

		out, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		err = export.Write(f, out, artifacts)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
			if errors.Is(err, export.ErrFormatUnavailable) {
				logger.Warn("skipping unavailable export format", "format", string(f))
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
				continue
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	}
	return nil
}

func printGenerateSummary(cmd *cobra.Command, opts *GenerateOptions, project string, full *dataset.Frame) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Project", "Rows", "Columns", "Formats"})
	t.AppendRow(table.Row{project, full.NumRows(), full.NumCols(), strings.Join(opts.Formats, ", ")})
	t.Render()
}

func formatList() string {
	names := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// fileSuffix names what each format's file contains.
var fileSuffix = map[export.Format]string{
	export.FormatCSV:          "data",
	export.FormatExcel:        "data",
	export.FormatExcelItems:   "items",
	export.FormatJSON:         "metadata",
	export.FormatCodebookCSV:  "codebook",
	export.FormatCodebookHTML: "codebook",
	export.FormatSPSS:         "data",
	export.FormatStata:        "data",
	export.FormatRDS:          "data",
}

// outputPath builds "<dir>/<project>_<suffix>.<ext>" with the project name
// slugged for the filesystem.
func outputPath(dir, project string, f export.Format) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, project)
	suffix, ok := fileSuffix[f]
	if !ok {
		suffix = string(f)
	}
	name := fmt.Sprintf("%s_%s.%s", slug, suffix, export.Extension(f))
	return filepath.Join(dir, name)
}
