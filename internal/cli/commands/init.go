package commands

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/latentlab/semgen/internal/config"
)

//go:embed scaffold.yaml
var scaffoldYAML []byte

// InitOptions holds flags for the init command.
type InitOptions struct {
	Force bool
}

// NewInitCommand scaffolds a starter model configuration file.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter semgen.yaml in the current directory",
		Long: `Init writes an example model configuration with three constructs
and two structural paths. Edit the file to describe your own model, then
run "semgen generate".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing configuration file")

	return cmd
}

func runInit(cmd *cobra.Command, opts *InitOptions) error {
	path := config.ConfigFileName
	if _, err := os.Stat(path); err == nil && !opts.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.WriteFile(path, scaffoldYAML, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit the model, then run: semgen generate")
	return nil
}
