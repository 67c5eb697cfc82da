package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chat2purchase/shopassist/internal/application/assistant"
	"github.com/chat2purchase/shopassist/internal/domain/models"
)

func TestFromChatOutput(t *testing.T) {
	out := &assistant.ChatOutput{
		Message:   "I found the Black Canvas Skate Sneakers",
		SessionID: "sess_1",
		CartActions: []models.CartAction{
			models.NewAddToCart(models.Product{ID: 17, Name: "Black Canvas Skate Sneakers", Price: 54.99, Rating: 4.4}),
		},
	}

	data, err := json.Marshal(FromChatOutput(out))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "sess_1", decoded["sessionId"])
	actions := decoded["cartActions"].([]any)
	require.Len(t, actions, 1)
	action := actions[0].(map[string]any)
	assert.Equal(t, "add", action["type"])
	product := action["product"].(map[string]any)
	assert.Equal(t, float64(17), product["id"])
	assert.Equal(t, 54.99, product["price"])
}

func TestFromChatOutput_EmptyCartActionsSerializeAsArray(t *testing.T) {
	data, err := json.Marshal(FromChatOutput(&assistant.ChatOutput{Message: "hi", SessionID: "sess_1"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"hi","sessionId":"sess_1","cartActions":[]}`, string(data))
}

func TestChatRequest_ToInput(t *testing.T) {
	var req ChatRequest
	require.NoError(t, json.Unmarshal([]byte(`{"message":"boots","sessionId":"sess_9"}`), &req))
	assert.Equal(t, assistant.ChatInput{Message: "boots", SessionID: "sess_9"}, req.ToInput())
}
