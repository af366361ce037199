package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	Limit int
}

// NewRunsCommand lists recorded generation runs.
func NewRunsCommand() *cobra.Command {
	opts := &RunsOptions{}

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List recorded generation runs",
		Long: `Runs shows the generation history recorded in the state database:
one row per run with its seed, sample size, and outcome. Pass a run ID to
print that run's stored configuration JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(cmd, opts, args)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list")

	return cmd
}

func runRuns(cmd *cobra.Command, opts *RunsOptions, args []string) error {
	logger := newLogger(cmd)

	store, err := openState(cmd, logger)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("run history disabled (--state is empty)")
	}
	defer store.Close()

	if len(args) == 1 {
		run, err := store.GetRun(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), run.ConfigJSON)
		return nil
	}

	runs, err := store.ListRuns(opts.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Project", "Seed", "Respondents", "Status", "Started", "Error"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID, r.Project, r.Seed, r.Respondents, string(r.Status),
			r.StartedAt.Local().Format(time.DateTime), r.Error,
		})
	}
	t.Render()
	return nil
}
