package assistant

import (
	"context"
	"log/slog"
	"strings"

	"github.com/chat2purchase/shopassist/internal/ports"
	"github.com/chat2purchase/shopassist/internal/prompt"
)

// Classifier decides whether a reply refers to specific products
type Classifier struct {
	completions ports.CompletionService
}

func NewClassifier(completions ports.CompletionService) *Classifier {
	return &Classifier{completions: completions}
}

// ReferencesProducts is true only when the trimmed answer is "yes", in any
// case. Provider failures and any other answer count as no.
func (c *Classifier) ReferencesProducts(ctx context.Context, reply string) bool {
	if strings.TrimSpace(reply) == "" {
		return false
	}

	answer, err := c.completions.Complete(ctx, ports.CompletionRequest{
		Name:        "classify_products",
		System:      prompt.Classifier,
		User:        reply,
		Temperature: 0,
		MaxTokens:   3,
	})
	if err != nil {
		slog.WarnContext(ctx, "product classification failed", "error", err)
		return false
	}

	return strings.EqualFold(strings.TrimSpace(answer), "yes")
}
