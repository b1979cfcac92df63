package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a questionnaire table and print its traits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := opts.loadTable()
			if err != nil {
				return err
			}
			opts.logger.Debug("table loaded", zap.String("path", opts.tablePath))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ok: %d traits, %d questions\n", len(table.Traits()), len(table.Questions()))
			for i, t := range table.Traits() {
				fmt.Fprintf(out, "  %d. %s\n", i+1, t)
			}
			return nil
		},
	}
}
