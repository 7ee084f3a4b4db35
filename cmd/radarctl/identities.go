package main

import (
	"github.com/spf13/cobra"

	"skill-radar/internal/scoring"
)

func newIdentitiesCmd() *cobra.Command {
	var (
		seed    string
		palette []string
	)
	cmd := &cobra.Command{
		Use:   "identities KEY...",
		Short: "Show the identity each participant key gets in a session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := scoring.Palette(palette)
			if len(p) == 0 {
				p = scoring.DefaultPalette
			}
			assigned := scoring.AssignIdentities(seed, args, p)
			type row struct {
				Key      string `json:"key"`
				Identity string `json:"identity"`
			}
			rows := make([]row, 0, len(assigned))
			for _, k := range scoring.SortedKeys(assigned) {
				rows = append(rows, row{Key: k, Identity: assigned[k]})
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"seed":       seed,
				"hash":       scoring.HashCode(seed),
				"identities": rows,
			})
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "", "session id used as seed")
	cmd.Flags().StringSliceVar(&palette, "palette", nil, "comma separated palette (default avatars)")
	_ = cmd.MarkFlagRequired("seed")
	return cmd
}
