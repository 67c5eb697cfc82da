package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chat2purchase/shopassist/internal/adapters/postgres"
	"github.com/chat2purchase/shopassist/internal/adapters/session"
)

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage stored chat sessions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete PostgreSQL sessions older than the session TTL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ValidateDatabase(); err != nil {
				return err
			}
			return runPrune(cmd.Context())
		},
	})

	return cmd
}

func runPrune(ctx context.Context) error {
	if cfg.Session.TTL.Duration <= 0 {
		fmt.Println("Session TTL is zero; nothing expires")
		return nil
	}

	pool, err := initDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := session.NewDatabaseStore(postgres.NewSessionRepository(pool), cfg.Session.TTL.Duration)
	removed, err := store.Prune(ctx)
	if err != nil {
		return fmt.Errorf("prune sessions: %w", err)
	}

	fmt.Printf("Removed %d sessions older than %s\n", removed, cfg.Session.TTL)
	return nil
}
