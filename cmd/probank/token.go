package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/probank/probank/internal/auth"
	"github.com/probank/probank/internal/config"
	"github.com/probank/probank/internal/db"
	"github.com/probank/probank/internal/store"
)

func newTokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API tokens",
	}

	var name string
	var expiresIn time.Duration
	createCmd := &cobra.Command{
		Use:   "create EMAIL",
		Short: "Mint an API token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			ctx := context.Background()
			u, err := store.NewUserStore(database).GetByEmail(ctx, args[0])
			if err != nil {
				return err
			}

			plaintext, hash, err := auth.GenerateToken()
			if err != nil {
				return err
			}
			var expiresAt *time.Time
			if expiresIn > 0 {
				t := time.Now().UTC().Add(expiresIn)
				expiresAt = &t
			}
			rec, err := auth.NewSQLTokenStore(database).Create(ctx, u.ID, name, hash, expiresAt)
			if err != nil {
				return err
			}

			// The plaintext is shown exactly once.
			fmt.Printf("token %s for %s:\n%s\n", rec.ID, u.Email, plaintext)
			return nil
		},
	}
	createCmd.Flags().StringVar(&name, "name", "cli", "token name")
	createCmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "token lifetime (0 = no expiry)")
	tokenCmd.AddCommand(createCmd)

	return tokenCmd
}
