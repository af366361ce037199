package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/latentlab/semgen/internal/bias"
	"github.com/latentlab/semgen/internal/config"
	"github.com/latentlab/semgen/internal/dataset"
	"github.com/latentlab/semgen/internal/export"
)

// BiasOptions holds flags for the bias command.
type BiasOptions struct {
	Bias      config.BiasConfig
	Seed      int64
	LikertMin int
	LikertMax int
}

// NewBiasCommand applies response-behavior distortions to an existing CSV
// dataset.
func NewBiasCommand() *cobra.Command {
	opts := &BiasOptions{}

	cmd := &cobra.Command{
		Use:   "bias <input.csv> <output.csv>",
		Short: "Apply response biases to an existing CSV dataset",
		Long: `Bias reads a CSV of Likert responses and writes a distorted copy:
careless responding, straight-lining, random responding, midpoint and
extremity pulls, acquiescence shift, and missing cells. Non-numeric columns
pass through untouched. The seed makes the distortion reproducible.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBias(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().Float64Var(&opts.Bias.CarelessRate, "careless-rate", 0, "share of cells replaced with uniform draws")
	cmd.Flags().Float64Var(&opts.Bias.StraightliningRate, "straightlining-rate", 0, "share of respondents answering every item identically")
	cmd.Flags().Float64Var(&opts.Bias.RandomResponseRate, "random-rate", 0, "share of respondents answering at random")
	cmd.Flags().Float64Var(&opts.Bias.MidpointLevel, "midpoint-level", 0, "pull toward the scale midpoint (0..1)")
	cmd.Flags().Float64Var(&opts.Bias.ExtremeLevel, "extreme-level", 0, "push toward the scale ends (0..1)")
	cmd.Flags().Float64Var(&opts.Bias.AcquiescenceLevel, "acquiescence-level", 0, "constant shift applied to every response")
	cmd.Flags().Float64Var(&opts.Bias.MissingRate, "missing-rate", 0, "share of cells blanked at random")
	cmd.Flags().Int64Var(&opts.Seed, "seed", config.DefaultSeed, "seed for the bias draws")
	cmd.Flags().IntVar(&opts.LikertMin, "likert-min", config.DefaultLikertMin, "scale minimum")
	cmd.Flags().IntVar(&opts.LikertMax, "likert-max", config.DefaultLikertMax, "scale maximum")

	return cmd
}

func runBias(cmd *cobra.Command, opts *BiasOptions, inPath, outPath string) error {
	if err := opts.Bias.Validate(); err != nil {
		return err
	}
	if opts.LikertMax <= opts.LikertMin {
		return fmt.Errorf("likert-max must be greater than likert-min")
	}
	if !opts.Bias.Enabled() {
		return fmt.Errorf("no bias parameters set; nothing to apply")
	}

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	frame, err := dataset.ReadCSV(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", inPath, err)
	}

	sample := config.SampleConfig{
		Respondents: frame.NumRows(),
		LikertMin:   opts.LikertMin,
		LikertMax:   opts.LikertMax,
		Seed:        opts.Seed,
	}
	biased := bias.ApplyAll(frame, sample, opts.Bias)

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	err = export.WriteCSV(out, biased)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d rows)\n", outPath, biased.NumRows())
	return nil
}
