package assistant

import (
	"github.com/chat2purchase/shopassist/internal/domain/models"
)

// DefaultMaxCartActions bounds the suggestions returned per reply
const DefaultMaxCartActions = 4

// Synthesize maps products to add-to-cart actions. Products without an id are
// skipped and at most limit actions are returned, in input order. A
// non-positive limit uses DefaultMaxCartActions.
func Synthesize(products []models.Product, limit int) []models.CartAction {
	if limit <= 0 {
		limit = DefaultMaxCartActions
	}

	actions := make([]models.CartAction, 0, min(len(products), limit))
	for _, p := range products {
		if len(actions) == limit {
			break
		}
		if !p.HasID() {
			continue
		}
		actions = append(actions, models.NewAddToCart(p))
	}
	return actions
}
