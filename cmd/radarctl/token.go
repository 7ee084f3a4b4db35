package main

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"skill-radar/internal/domain"
	"skill-radar/internal/service"
)

func newTokenCmd() *cobra.Command {
	var (
		userID, email, name, secret string
		ttl                         time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user id",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return errors.New("jwt secret required (--secret or JWT_SECRET)")
			}
			token, err := service.NewJWTService(secret, ttl).GenerateAccessToken(domain.User{
				ID:          userID,
				Email:       email,
				DisplayName: name,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]string{"access_token": token})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (defaults to JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
