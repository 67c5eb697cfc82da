package dto

import (
	"github.com/chat2purchase/shopassist/internal/application/assistant"
	"github.com/chat2purchase/shopassist/internal/domain/models"
)

// ChatRequest is the body of POST /api/chat and of each websocket frame
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

func (r *ChatRequest) ToInput() assistant.ChatInput {
	return assistant.ChatInput{
		Message:   r.Message,
		SessionID: r.SessionID,
	}
}

type ProductResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	Category    string  `json:"category"`
	ImagePath   string  `json:"image_path"`
}

type CartActionResponse struct {
	Type    string          `json:"type"`
	Product ProductResponse `json:"product"`
}

// ChatResponse always carries a cartActions array, empty when there are none
type ChatResponse struct {
	Message     string               `json:"message"`
	SessionID   string               `json:"sessionId"`
	CartActions []CartActionResponse `json:"cartActions"`
}

// FromProduct copies a product for the wire. Non-finite numbers become zero
// so the response always encodes.
func FromProduct(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       models.FiniteOrZero(p.Price),
		Rating:      models.FiniteOrZero(p.Rating),
		Category:    p.Category,
		ImagePath:   p.ImagePath,
	}
}

func FromChatOutput(out *assistant.ChatOutput) *ChatResponse {
	actions := make([]CartActionResponse, 0, len(out.CartActions))
	for _, a := range out.CartActions {
		actions = append(actions, CartActionResponse{
			Type:    string(a.Type),
			Product: FromProduct(a.Product),
		})
	}
	return &ChatResponse{
		Message:     out.Message,
		SessionID:   out.SessionID,
		CartActions: actions,
	}
}
