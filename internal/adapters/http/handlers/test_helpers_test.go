package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/chat2purchase/shopassist/internal/application/assistant"
	"github.com/chat2purchase/shopassist/internal/domain/models"
)

// mockChatService echoes the message and assigns "sess_new" to new sessions
type mockChatService struct {
	mu     sync.Mutex
	inputs []assistant.ChatInput
	output func(in assistant.ChatInput) *assistant.ChatOutput
}

func (m *mockChatService) Chat(_ context.Context, in assistant.ChatInput) *assistant.ChatOutput {
	m.mu.Lock()
	m.inputs = append(m.inputs, in)
	m.mu.Unlock()

	if m.output != nil {
		return m.output(in)
	}
	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = "sess_new"
	}
	return &assistant.ChatOutput{
		Message:     "echo: " + in.Message,
		SessionID:   sessionID,
		CartActions: []models.CartAction{},
	}
}

func (m *mockChatService) received() []assistant.ChatInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]assistant.ChatInput(nil), m.inputs...)
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error {
	return m.err
}

var errPingFailed = errors.New("connection refused")
