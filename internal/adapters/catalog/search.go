// Package catalog implements natural-language product search: SQL generation
// through a helper model, a read-only guard, and execution against the
// product repository.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/chat2purchase/shopassist/internal/adapters/metrics"
	"github.com/chat2purchase/shopassist/internal/domain"
	"github.com/chat2purchase/shopassist/internal/domain/models"
	"github.com/chat2purchase/shopassist/internal/ports"
	"github.com/chat2purchase/shopassist/internal/prompt"
)

var tracer = otel.Tracer("internal/adapters/catalog")

// Searcher implements ports.CatalogSearcher
type Searcher struct {
	completions ports.CompletionService
	products    ports.ProductRepository
	categories  []string
}

func NewSearcher(completions ports.CompletionService, products ports.ProductRepository) *Searcher {
	return &Searcher{
		completions: completions,
		products:    products,
	}
}

// WithCategories replaces the category list offered to the SQL generator
func (s *Searcher) WithCategories(categories []string) *Searcher {
	s.categories = categories
	return s
}

// Search turns a natural-language query into products. Generation, guard and
// database failures come back as typed results with a readable Message; only
// a failed helper-model call is returned as an error.
func (s *Searcher) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	ctx, span := tracer.Start(ctx, "catalog.search")
	defer span.End()

	query = strings.TrimSpace(query)
	span.SetAttributes(attribute.String("catalog.query", query))

	raw, err := s.completions.Complete(ctx, ports.CompletionRequest{
		Name:        "generate_sql",
		System:      prompt.SQLSystem,
		User:        prompt.SQLUser(query, s.categories),
		Temperature: 0.1,
		MaxTokens:   200,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.CatalogSearchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: sql generation: %w", domain.ErrToolExecutionFailed, err)
	}

	result := s.run(ctx, query, CleanSQL(raw))
	span.SetAttributes(
		attribute.String("catalog.sql", result.SQL),
		attribute.String("catalog.status", string(result.Status)),
		attribute.Int("catalog.products", len(result.Products)),
	)
	metrics.CatalogSearchesTotal.WithLabelValues(string(result.Status)).Inc()

	return result, nil
}

func (s *Searcher) run(ctx context.Context, query, sql string) *models.SearchResult {
	result := &models.SearchResult{Query: query, SQL: sql}

	guarded, err := Guard(sql)
	if err != nil {
		if errors.Is(err, domain.ErrUnsafeSQL) {
			slog.WarnContext(ctx, "rejected generated sql", "query", query, "sql", sql, "error", err)
		}
		result.Status = models.SearchStatusInvalidQuery
		result.Message = MessageInvalidQuery
		return result
	}
	result.SQL = guarded

	products, err := s.products.Query(ctx, guarded)
	if err != nil {
		slog.ErrorContext(ctx, "catalog query failed", "sql", guarded, "error", err)
		result.Status = models.SearchStatusFailed
		result.Message = MessageSearchFailed
		return result
	}

	if len(products) == 0 {
		result.Status = models.SearchStatusNoResults
		result.Message = MessageNoResults
		return result
	}

	result.Status = models.SearchStatusFound
	result.Products = products
	result.Message = Render(products)
	return result
}
