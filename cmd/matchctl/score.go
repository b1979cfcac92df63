package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"persona-match/internal/domain"
	"persona-match/internal/matching"
)

type scoreOutput struct {
	Profile domain.Profile `json:"profile"`
	Ranking domain.Ranking `json:"ranking"`
}

func newScoreCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "score [answers.json]",
		Short: "Print the profile and ranking for one answer set (stdin when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := opts.loadTable()
			if err != nil {
				return err
			}

			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			var raw domain.RawAnswers
			if err := json.NewDecoder(r).Decode(&raw); err != nil {
				return fmt.Errorf("decode answers: %w", err)
			}
			answers, err := table.Resolve(raw)
			if err != nil {
				return err
			}

			profile := matching.ComputeProfile(table, answers)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(scoreOutput{
				Profile: profile,
				Ranking: matching.DeriveRanking(table.Traits(), profile),
			})
		},
	}
}
