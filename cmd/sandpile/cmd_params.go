package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newParamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Print the effective simulation parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, group := range cfg.Parameters().Groups {
				fmt.Fprintf(tw, "[%s]\n", group.Name)
				for _, p := range group.Params {
					fmt.Fprintf(tw, "  %s\t%s\t%s\n", p.Key, p.Value, p.Description)
				}
			}
			return tw.Flush()
		},
	}
}
