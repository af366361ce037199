// Package commands implements the semgen CLI commands.
package commands

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/latentlab/semgen/internal/config"
	"github.com/latentlab/semgen/internal/state"
)

// DefaultStatePath is where run history lives unless overridden.
const DefaultStatePath = ".semgen/state.db"

// newLogger builds the command logger; --verbose enables debug output.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// loadModel loads and validates the model configuration named by --config,
// applying any sampling override flags the command defines.
func loadModel(cmd *cobra.Command) (*config.ModelConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path, cmd.Flags())
}

// openState opens the run-history store named by --state, creating parent
// directories as needed. Returns nil when run history is disabled.
func openState(cmd *cobra.Command, logger *slog.Logger) (*state.Store, error) {
	path, _ := cmd.Flags().GetString("state")
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}
	store := state.NewStore(logger)
	if err := store.Open(path); err != nil {
		return nil, err
	}
	if err := store.InitSchema(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// fmtStat renders a statistic for tabular output; undefined values show as
// "NA".
func fmtStat(v float64) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}
