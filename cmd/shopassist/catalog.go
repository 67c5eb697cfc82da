package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chat2purchase/shopassist/internal/adapters/catalog"
	"github.com/chat2purchase/shopassist/internal/adapters/postgres"
	"github.com/chat2purchase/shopassist/internal/domain"
	"github.com/chat2purchase/shopassist/internal/domain/models"
	"github.com/chat2purchase/shopassist/internal/llm"
)

// catalogCmd inspects the product catalog
func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the product catalog",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Show product count and categories",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := cfg.ValidateDatabase(); err != nil {
					return err
				}
				return runCatalogStats(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show one product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil || id <= 0 {
					return fmt.Errorf("invalid product id %q", args[0])
				}
				if err := cfg.ValidateDatabase(); err != nil {
					return err
				}
				return runCatalogShow(cmd.Context(), id)
			},
		},
		&cobra.Command{
			Use:   "search <query>",
			Short: "Run a natural-language search without the conversation model",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := cfg.Validate(); err != nil {
					return err
				}
				return runCatalogSearch(cmd.Context(), strings.Join(args, " "))
			},
		},
	)

	return cmd
}

func runCatalogStats(ctx context.Context) error {
	pool, err := initDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := postgres.NewProductRepository(pool)
	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	categories, err := repo.ListCategories(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Products:   %d\n", count)
	fmt.Printf("Categories: %d\n", len(categories))
	for _, c := range categories {
		fmt.Printf("  - %s\n", c)
	}
	return nil
}

func runCatalogShow(ctx context.Context, id int64) error {
	pool, err := initDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	p, err := postgres.NewProductRepository(pool).GetByID(ctx, id)
	if errors.Is(err, domain.ErrProductNotFound) {
		return fmt.Errorf("no product with id %d", id)
	}
	if err != nil {
		return err
	}

	printProduct(*p)
	return nil
}

func runCatalogSearch(ctx context.Context, query string) error {
	pool, err := initDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	completions := llm.NewCompletionClient(cfg.LLM.URL, cfg.LLM.APIKey, cfg.LLM.HelperModel, cfg.LLM.Timeout.Duration)
	products := postgres.NewProductRepository(pool)
	searcher := catalog.NewSearcher(completions, products)
	if categories, err := products.ListCategories(ctx); err == nil && len(categories) > 0 {
		searcher.WithCategories(categories)
	}

	result, err := searcher.Search(ctx, query)
	if err != nil {
		return err
	}

	fmt.Printf("Status: %s\n", result.Status)
	if result.SQL != "" {
		fmt.Printf("SQL:    %s\n", result.SQL)
	}
	if !result.Found() {
		fmt.Println(result.Message)
		return nil
	}
	fmt.Println()
	for _, p := range result.Products {
		printProduct(p)
		fmt.Println()
	}
	return nil
}

func printProduct(p models.Product) {
	fmt.Printf("#%d %s\n", p.ID, p.Name)
	fmt.Printf("  Price:    $%.2f\n", p.Price)
	fmt.Printf("  Rating:   %.1f\n", p.Rating)
	if p.Category != "" {
		fmt.Printf("  Category: %s\n", p.Category)
	}
	if p.ImagePath != "" {
		fmt.Printf("  Image:    %s\n", p.ImagePath)
	}
	if p.Description != "" {
		fmt.Printf("  %s\n", p.Description)
	}
}
