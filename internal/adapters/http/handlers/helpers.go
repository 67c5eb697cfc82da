package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/chat2purchase/shopassist/internal/adapters/http/dto"
	"github.com/chat2purchase/shopassist/internal/application/assistant"
)

// maxBodyBytes bounds chat request bodies
const maxBodyBytes = 1024 * 1024

// ChatService is the orchestration the chat endpoints call into
type ChatService interface {
	Chat(ctx context.Context, in assistant.ChatInput) *assistant.ChatOutput
}

// runChat calls the service and turns a panic or a nil output into the
// provider apology, so chat clients always get a chat-shaped reply.
func runChat(ctx context.Context, chat ChatService, in assistant.ChatInput) (out *assistant.ChatOutput) {
	defer func() {
		if rec := recover(); rec != nil {
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.ErrorContext(ctx, "panic in chat service",
				"session_id", in.SessionID,
				"panic", rec,
				"stack", string(debug.Stack()))
			out = nil
		}
		if out == nil {
			out = &assistant.ChatOutput{
				Message:   assistant.MessageProviderError,
				SessionID: in.SessionID,
			}
		}
	}()

	return chat.Chat(ctx, in)
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, errorType string, message string, status int) {
	respondJSON(w, dto.NewErrorResponse(errorType, message, status), status)
}
