// Package cli provides the command-line interface for semgen.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/latentlab/semgen/internal/cli/commands"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "semgen",
		Short: "semgen - SEM survey dataset synthesizer",
		Long: `semgen synthesizes survey-style datasets for Structural Equation Modeling
research. It simulates latent constructs over a user-specified causal graph,
derives Likert-scale indicators through a reflective measurement model, and
computes psychometric diagnostics (Cronbach's alpha, CR, AVE, HTMT) for
generated or uploaded data.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringP("config", "c", "semgen.yaml", "model configuration file")
	rootCmd.PersistentFlags().String("state", commands.DefaultStatePath, "run history database (empty to disable)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		commands.NewInitCommand(),
		commands.NewGenerateCommand(),
		commands.NewDiagnoseCommand(),
		commands.NewBiasCommand(),
		commands.NewRunsCommand(),
		commands.NewVersionCommand(Version, BuildDate, GitCommit),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
