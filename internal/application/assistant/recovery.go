package assistant

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/chat2purchase/shopassist/internal/adapters/metrics"
	"github.com/chat2purchase/shopassist/internal/domain/models"
	"github.com/chat2purchase/shopassist/internal/ports"
	"github.com/chat2purchase/shopassist/internal/prompt"
)

const (
	DefaultMaxRecoveryCandidates = 4
	DefaultRecoveryConcurrency   = 2
)

// Recovery re-queries the catalog for products a reply names but the turn
// did not surface as structured records
type Recovery struct {
	completions   ports.CompletionService
	driver        Converser
	maxCandidates int
	concurrency   int
}

func NewRecovery(completions ports.CompletionService, driver Converser, maxCandidates, concurrency int) *Recovery {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxRecoveryCandidates
	}
	if concurrency <= 0 {
		concurrency = DefaultRecoveryConcurrency
	}
	return &Recovery{
		completions:   completions,
		driver:        driver,
		maxCandidates: maxCandidates,
		concurrency:   concurrency,
	}
}

// Candidates asks the helper model for the product names in reply, capped at
// the configured maximum. Failures yield nil.
func (r *Recovery) Candidates(ctx context.Context, reply string) []string {
	raw, err := r.completions.Complete(ctx, ports.CompletionRequest{
		Name:        "extract_product_names",
		System:      prompt.Extractor,
		User:        reply,
		Temperature: 0,
		MaxTokens:   200,
	})
	if err != nil {
		slog.WarnContext(ctx, "product name extraction failed", "error", err)
		return nil
	}

	names := ParseNames(raw)
	if len(names) > r.maxCandidates {
		names = names[:r.maxCandidates]
	}
	return names
}

// Recover searches each candidate through a synthetic turn on the session's
// token and keeps the first product whose name contains the candidate.
// Output follows candidate order; a product matched twice is kept once.
func (r *Recovery) Recover(ctx context.Context, reply, sessionID, responseID string) []models.Product {
	ctx, span := tracer.Start(ctx, "assistant.recover")
	defer span.End()

	candidates := r.Candidates(ctx, reply)
	if len(candidates) == 0 {
		return nil
	}

	matches := make([]*models.Product, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, name := range candidates {
		g.Go(func() error {
			// the synthetic turn's token is discarded
			turn := r.driver.Converse(gctx, prompt.RecoverySearch(name), sessionID, responseID)
			for _, p := range turn.Products {
				if p.NameContains(name) {
					matches[i] = &p
					break
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	recovered := make([]models.Product, 0, len(candidates))
	seen := make(map[int64]bool, len(candidates))
	for i, m := range matches {
		if m == nil {
			slog.InfoContext(ctx, "no catalog match for candidate", "candidate", candidates[i])
			metrics.RecoveryTurnsTotal.WithLabelValues("miss").Inc()
			continue
		}
		metrics.RecoveryTurnsTotal.WithLabelValues("match").Inc()
		if m.HasID() {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
		}
		recovered = append(recovered, *m)
	}

	return recovered
}

// ParseNames reads a JSON array of strings, tolerating code fences and
// surrounding prose. Blank entries are dropped.
func ParseNames(raw string) []string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil
	}

	var values []any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &values); err != nil {
		return nil
	}

	names := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			names = append(names, s)
		}
	}
	return names
}
