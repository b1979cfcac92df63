// matchctl calcula perfiles y afinidades sin base de datos, a partir de archivos locales.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"persona-match/internal/traits"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	tablePath string
	verbose   bool
	logger    *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "matchctl",
		Short:         "Offline tools for the personality questionnaire",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !opts.verbose {
				return nil
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.tablePath, "table", "", "questionnaire YAML (default: built-in table)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(newValidateCmd(opts), newScoreCmd(opts), newMatchCmd(opts))
	return root
}

func (o *rootOptions) loadTable() (*traits.Table, error) {
	if o.tablePath == "" {
		return traits.Default()
	}
	return traits.LoadFile(o.tablePath)
}
