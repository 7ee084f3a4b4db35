package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"skill-radar/internal/catalog"
	"skill-radar/internal/scoring"
	"skill-radar/internal/service"
)

func newScoreCmd() *cobra.Command {
	var catalogPath, answersPath string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an answer file against a catalog",
		Long:  "Reads a JSON object mapping question id to answer id (use - for stdin) and prints the score vector.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.LoadFile(catalogPath)
			if err != nil {
				return err
			}
			selections, err := readSelections(cmd.InOrStdin(), answersPath)
			if err != nil {
				return err
			}
			answers, err := service.ResolveSelections(c, selections)
			if err != nil {
				return err
			}
			scores := scoring.ScoreAnswers(answers, c.Measurements)
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"catalog_id":     c.ID,
				"measurements":   c.Measurements,
				"scores":         scores,
				"scores_display": scores.Display(),
				"breakdown":      scoring.Breakdown(answers, c),
			})
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "catalogs/sport.yaml", "catalog YAML file")
	cmd.Flags().StringVar(&answersPath, "answers", "-", "answers JSON file")
	return cmd
}

func readSelections(stdin io.Reader, path string) (map[string]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open answers: %w", err)
		}
		defer f.Close()
		r = f
	}
	var selections map[string]string
	if err := json.NewDecoder(r).Decode(&selections); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return selections, nil
}
