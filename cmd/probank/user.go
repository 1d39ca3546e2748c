package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/probank/probank/internal/config"
	"github.com/probank/probank/internal/db"
	"github.com/probank/probank/internal/store"
)

func newUserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage local user records",
	}

	var displayName string
	createCmd := &cobra.Command{
		Use:   "create EMAIL",
		Short: "Register a user",
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

			name := displayName
			if name == "" {
				name = args[0]
			}
			u, err := store.NewUserStore(database).Create(context.Background(), args[0], name, cfg.AdminEmail)
			if err != nil {
				return err
			}
			fmt.Printf("created user %s (%s, role %s)\n", u.ID, u.Email, u.Role)
			return nil
		},
	}
	createCmd.Flags().StringVar(&displayName, "name", "", "display name (defaults to the email)")
	userCmd.AddCommand(createCmd)

	return userCmd
}
