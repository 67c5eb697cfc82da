package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/chat2purchase/shopassist/internal/domain/models"
)

const (
	MessageNoResults    = "I couldn't find any products matching your search in our catalog."
	MessageInvalidQuery = "I couldn't generate a valid search query from your request. Please try rephrasing your search."
	MessageSearchFailed = "I encountered an error while searching. Please try again."
)

// Render formats products the way the conversation model reads tool output
func Render(products []models.Product) string {
	if len(products) == 0 {
		return MessageNoResults
	}
	data, err := json.Marshal(products)
	if err != nil {
		return MessageSearchFailed
	}
	return fmt.Sprintf("Found %d product(s): %s", len(products), data)
}
