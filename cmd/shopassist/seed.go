package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chat2purchase/shopassist/internal/adapters/catalog"
	"github.com/chat2purchase/shopassist/internal/adapters/postgres"
)

// seedCmd populates the catalog from a seed cache file
func seedCmd() *cobra.Command {
	var (
		file   string
		force  bool
		schema bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the product catalog from a seed cache",
		Long: `Load products from a seed cache (a JSON object mapping image filename to
product) into PostgreSQL inside a single transaction.

An existing catalog is left untouched unless --force is given, in which case
it is truncated and ids restart at 1.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ValidateDatabase(); err != nil {
				return err
			}
			return runSeed(cmd.Context(), file, force, schema)
		},
	}

	cmd.Flags().StringVar(&file, "file", "seed_cache.json", "seed cache path")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing catalog")
	cmd.Flags().BoolVar(&schema, "schema", false, "create tables before seeding")
	return cmd
}

func runSeed(ctx context.Context, file string, force, schema bool) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open seed cache: %w", err)
	}
	defer f.Close()

	products, err := catalog.LoadSeed(f)
	if err != nil {
		return err
	}
	slog.Info("loaded seed cache", "file", file, "products", len(products))

	pool, err := initDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if schema {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return err
		}
	}

	txManager := postgres.NewTransactionManager(pool)
	repo := postgres.NewProductRepository(pool)

	var inserted, total int64
	err = txManager.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if existing > 0 {
			if !force {
				return fmt.Errorf("catalog already has %d products; rerun with --force to replace them", existing)
			}
			if err := repo.Truncate(ctx); err != nil {
				return err
			}
			slog.Info("cleared existing catalog", "products", existing)
		}

		inserted, err = repo.InsertBatch(ctx, products)
		if err != nil {
			return err
		}
		total, err = repo.Count(ctx)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Printf("Inserted %d products | Total in DB: %d\n", inserted, total)
	return nil
}
