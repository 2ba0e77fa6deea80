package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/app"
)

var (
	tokenUser string
	tokenTTL  time.Duration

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Issue a signed access token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(tokenUser)
			if err != nil {
				return fmt.Errorf("--user must be a UUID: %w", err)
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if a.Services.Tokens == nil {
					return fmt.Errorf("JWT_SECRET_KEY is not set")
				}
				tok, err := a.Services.Tokens.IssueToken(userID, tokenTTL)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), tok)
				return nil
			})
		},
	}
)

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id placed in the token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
}
