package main

import (
	"fmt"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sandpile/internal/sweep"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run independent simulations for consecutive seeds in parallel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			steps, _ := cmd.Flags().GetInt("steps")
			runs, _ := cmd.Flags().GetInt("runs")
			workers, _ := cmd.Flags().GetInt("workers")
			logger := newLogger(cmd)

			seeds := sweep.Seeds(cfg.Seed, runs)
			logger.Info("starting sweep", "runs", len(seeds), "workers", workers, "steps", steps)
			results, err := sweep.Run(cmd.Context(), cfg, seeds, sweep.Options{
				Steps:   steps,
				Workers: workers,
				Logger:  logger,
			})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SEED\tSTEPS\tAVALANCHES\tTOPPLES\tLARGEST\tMEAN\tLOST\tGRAINS")
			for _, res := range results {
				s := res.Summary
				fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%.3f\t%d\t%d\n",
					res.Seed, s.Steps, s.Avalanches, s.Topples, s.Largest, s.MeanSize, s.Lost, res.Grains)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Int("steps", 100000, "grains to drop per run")
	cmd.Flags().Int("runs", 4, "number of seeds, counting up from --seed")
	cmd.Flags().Int("workers", runtime.NumCPU(), "number of concurrent runs")
	return cmd
}
