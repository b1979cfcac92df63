package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"persona-match/internal/domain"
	"persona-match/internal/matching"
)

// fixtureEntry es una fila del archivo de respuestas.
type fixtureEntry struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Contact string            `json:"contact"`
	Origin  string            `json:"origin"`
	Cohort  string            `json:"cohort"`
	Answers domain.RawAnswers `json:"answers"`
}

func (e fixtureEntry) respondent() domain.Respondent {
	return domain.Respondent{
		ID:      e.ID,
		Name:    e.Name,
		Contact: e.Contact,
		Origin:  e.Origin,
		Cohort:  e.Cohort,
	}
}

func newMatchCmd(opts *rootOptions) *cobra.Command {
	var (
		inputPath string
		subject   string
		workers   int
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Compute the match report of one respondent against a JSON answers file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := opts.loadTable()
			if err != nil {
				return err
			}
			entries, err := readFixture(inputPath)
			if err != nil {
				return err
			}

			engine, err := matching.NewEngine(table.Traits(), matching.WithWorkers(workers))
			if err != nil {
				return err
			}

			var (
				subjectRanking domain.Ranking
				found          bool
				others         []matching.Candidate
			)
			for _, e := range entries {
				answers, err := table.Resolve(e.Answers)
				if err != nil {
					return fmt.Errorf("respondent %q: %w", e.ID, err)
				}
				ranking := matching.Rank(table, answers)
				if e.ID == subject {
					subjectRanking, found = ranking, true
					continue
				}
				others = append(others, matching.Candidate{Ranking: ranking, Display: e.respondent().Display()})
			}
			if !found {
				return fmt.Errorf("subject %q not found in %s", subject, inputPath)
			}

			matches, err := engine.ComputeMatches(subjectRanking, others)
			if err != nil {
				return err
			}
			opts.logger.Info("matches computed",
				zap.String("subject", subject),
				zap.Int("candidates", len(others)),
				zap.Int("matches", len(matches)),
			)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(domain.MatchReport{Identity: subject, Matches: matches})
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "JSON file with respondents and their answers")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "identity of the respondent to match")
	cmd.Flags().IntVar(&workers, "workers", 4, "parallel distance workers")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func readFixture(path string) ([]fixtureEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []fixtureEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return entries, nil
}
