package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sandpile/internal/logging"
	"sandpile/internal/sims/sandpile"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sandpile",
		Short: "Abelian sandpile simulator",
		Long: `sandpile drops grains one at a time onto random cells of a grid and
topples every cell that exceeds its capacity, recording the size of each
avalanche.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaults := sandpile.DefaultConfig()
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "YAML config file")
	pf.String("log-level", "info", "log level: error, warn, info, debug, trace")
	pf.Int("width", defaults.Width, "grid width")
	pf.Int("height", defaults.Height, "grid height")
	pf.Int("capacity", defaults.Capacity, "largest stable grain count")
	pf.Int64("seed", defaults.Seed, "cell picker seed")
	pf.String("queue", string(defaults.Queue), "topple queue discipline: fifo or lifo")
	pf.Int("cascade-limit", 0, "topples per avalanche before aborting (0 derives from grid size)")

	rootCmd.AddCommand(
		newRunCmd(),
		newSweepCmd(),
		newParamsCmd(),
	)
	return rootCmd
}

// loadConfig layers explicitly set flags over the config file (or defaults).
func loadConfig(cmd *cobra.Command) (sandpile.Config, error) {
	cfg := sandpile.DefaultConfig()
	flags := cmd.Flags()

	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := sandpile.LoadFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if flags.Changed("width") {
		cfg.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		cfg.Height, _ = flags.GetInt("height")
	}
	if flags.Changed("capacity") {
		cfg.Capacity, _ = flags.GetInt("capacity")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("queue") {
		q, _ := flags.GetString("queue")
		cfg.Queue = sandpile.Discipline(q)
	}
	if flags.Changed("cascade-limit") {
		cfg.CascadeLimit, _ = flags.GetInt("cascade-limit")
	}
	return cfg, cfg.Validate()
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logging.NewLogger(level, cmd.ErrOrStderr())
}
