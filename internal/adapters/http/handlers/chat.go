package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/chat2purchase/shopassist/internal/adapters/http/dto"
	"github.com/chat2purchase/shopassist/internal/adapters/http/encoding"
)

type ChatHandler struct {
	chat ChatService
}

func NewChatHandler(chat ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Chat answers 200 for every decodable request. Failures inside the turn
// surface as a polite message rather than an error status.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req dto.ChatRequest
	if err := encoding.Decode(r, &req); err != nil {
		respondError(w, dto.ErrorTypeInvalidRequest, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.SessionID = strings.TrimSpace(req.SessionID)

	out := runChat(r.Context(), h.chat, req.ToInput())

	if err := encoding.Write(w, r, http.StatusOK, dto.FromChatOutput(out)); err != nil {
		slog.WarnContext(r.Context(), "failed to write chat response", "session_id", out.SessionID, "error", err)
	}
}
