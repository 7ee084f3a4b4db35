package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "radarctl",
		Short:         "Skill radar tooling",
		Long:          "radarctl runs the scoring engine against local catalog files without a database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newScoreCmd())
	root.AddCommand(newIdentitiesCmd())
	root.AddCommand(newTokenCmd())
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
