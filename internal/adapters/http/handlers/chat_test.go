package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/chat2purchase/shopassist/internal/adapters/http/dto"
	"github.com/chat2purchase/shopassist/internal/adapters/http/encoding"
	"github.com/chat2purchase/shopassist/internal/application/assistant"
	"github.com/chat2purchase/shopassist/internal/domain/models"
)

func TestChatHandler_Chat(t *testing.T) {
	svc := &mockChatService{}
	handler := NewChatHandler(svc)

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.Chat(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"echo: hello","sessionId":"sess_new","cartActions":[]}`, rr.Body.String())
	require.Len(t, svc.received(), 1)
	assert.Equal(t, assistant.ChatInput{Message: "hello"}, svc.received()[0])
}

func TestChatHandler_PassesSessionID(t *testing.T) {
	svc := &mockChatService{}
	handler := NewChatHandler(svc)

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"more","sessionId":" sess_1 "}`))
	rr := httptest.NewRecorder()
	handler.Chat(rr, req)

	var resp dto.ChatResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "sess_1", resp.SessionID)
	assert.Equal(t, "sess_1", svc.received()[0].SessionID)
}

func TestChatHandler_FailedTurnStill200(t *testing.T) {
	svc := &mockChatService{output: func(in assistant.ChatInput) *assistant.ChatOutput {
		return &assistant.ChatOutput{
			Message:   assistant.MessageProviderError,
			SessionID: "sess_1",
			Outcome:   models.OutcomeProviderError,
		}
	}}
	handler := NewChatHandler(svc)

	rr := httptest.NewRecorder()
	handler.Chat(rr, httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"anything"}`)))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp dto.ChatResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, assistant.MessageProviderError, resp.Message)
	assert.NotNil(t, resp.CartActions)
}

func TestChatHandler_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "truncated json", body: `{"message":`},
		{name: "wrong type", body: `{"message": 42}`},
		{name: "not json", body: `hello`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockChatService{}
			rr := httptest.NewRecorder()
			NewChatHandler(svc).Chat(rr, httptest.NewRequest("POST", "/api/chat", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, dto.ErrorTypeInvalidRequest, body.Error)
			assert.Empty(t, svc.received())
		})
	}
}

func TestChatHandler_Msgpack(t *testing.T) {
	svc := &mockChatService{output: func(in assistant.ChatInput) *assistant.ChatOutput {
		return &assistant.ChatOutput{
			Message:   "found one",
			SessionID: "sess_1",
			CartActions: []models.CartAction{
				models.NewAddToCart(models.Product{ID: 3, Name: "Boot", Price: 99.5}),
			},
		}
	}}

	var body bytes.Buffer
	enc := msgpack.NewEncoder(&body)
	enc.SetCustomStructTag("json")
	require.NoError(t, enc.Encode(dto.ChatRequest{Message: "boots", SessionID: "sess_1"}))

	req := httptest.NewRequest("POST", "/api/chat", &body)
	req.Header.Set("Content-Type", encoding.ContentTypeMsgpack)
	req.Header.Set("Accept", encoding.ContentTypeMsgpack)
	rr := httptest.NewRecorder()
	NewChatHandler(svc).Chat(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, encoding.ContentTypeMsgpack, rr.Header().Get("Content-Type"))
	assert.Equal(t, "boots", svc.received()[0].Message)

	var resp dto.ChatResponse
	require.NoError(t, encoding.ReadMsgpack(rr.Body, &resp))
	assert.Equal(t, "found one", resp.Message)
	require.Len(t, resp.CartActions, 1)
	assert.Equal(t, int64(3), resp.CartActions[0].Product.ID)
	assert.Equal(t, 99.5, resp.CartActions[0].Product.Price)
}

func TestChatHandler_PanicBecomesApology(t *testing.T) {
	svc := &mockChatService{output: func(assistant.ChatInput) *assistant.ChatOutput {
		panic("session store exploded")
	}}

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"hi","sessionId":"sess_4"}`))
	rr := httptest.NewRecorder()
	NewChatHandler(svc).Chat(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp dto.ChatResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, assistant.MessageProviderError, resp.Message)
	assert.Equal(t, "sess_4", resp.SessionID)
	assert.NotNil(t, resp.CartActions)
}

func TestChatHandler_NilOutputBecomesApology(t *testing.T) {
	svc := &mockChatService{output: func(assistant.ChatInput) *assistant.ChatOutput { return nil }}

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"hi"}`))
	rr := httptest.NewRecorder()
	NewChatHandler(svc).Chat(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"`+assistant.MessageProviderError+`","sessionId":"","cartActions":[]}`, rr.Body.String())
}

func TestChatHandler_NonFinitePricesStillEncode(t *testing.T) {
	svc := &mockChatService{output: func(assistant.ChatInput) *assistant.ChatOutput {
		return &assistant.ChatOutput{
			Message:   "found one",
			SessionID: "sess_1",
			CartActions: []models.CartAction{
				models.NewAddToCart(models.Product{ID: 3, Name: "Boot", Price: math.NaN(), Rating: math.Inf(1)}),
			},
		}
	}}

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"boots"}`))
	rr := httptest.NewRecorder()
	NewChatHandler(svc).Chat(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp dto.ChatResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), "body: %q", rr.Body.String())
	require.Len(t, resp.CartActions, 1)
	assert.Equal(t, 0.0, resp.CartActions[0].Product.Price)
	assert.Equal(t, 0.0, resp.CartActions[0].Product.Rating)
}
