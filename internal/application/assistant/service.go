// Package assistant implements a shopping conversation turn: the tool loop,
// product reference classification, product recovery and cart suggestions.
package assistant

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/chat2purchase/shopassist/internal/adapters/metrics"
	"github.com/chat2purchase/shopassist/internal/domain/models"
	"github.com/chat2purchase/shopassist/internal/ports"
)

// MessageEmptyInput is returned for blank chat messages
const MessageEmptyInput = "Please type a message so I can help you find something."

type ChatInput struct {
	Message   string
	SessionID string
}

type ChatOutput struct {
	Message     string
	SessionID   string
	CartActions []models.CartAction
	ResponseID  string
	Outcome     models.TurnOutcome
}

type Options struct {
	MaxCartActions int
}

// Service orchestrates one chat request end to end
type Service struct {
	sessions   ports.SessionStore
	ids        ports.IDGenerator
	driver     Converser
	classifier *Classifier
	recovery   *Recovery
	opts       Options
}

func NewService(
	sessions ports.SessionStore,
	ids ports.IDGenerator,
	driver Converser,
	classifier *Classifier,
	recovery *Recovery,
	opts Options,
) *Service {
	if opts.MaxCartActions <= 0 {
		opts.MaxCartActions = DefaultMaxCartActions
	}
	return &Service{
		sessions:   sessions,
		ids:        ids,
		driver:     driver,
		classifier: classifier,
		recovery:   recovery,
		opts:       opts,
	}
}

// Chat never fails: every problem is folded into a polite Message
func (s *Service) Chat(ctx context.Context, in ChatInput) *ChatOutput {
	ctx, span := tracer.Start(ctx, "assistant.chat")
	defer span.End()

	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = s.ids.GenerateSessionID()
	}
	span.SetAttributes(attribute.String("session.id", sessionID))

	out := &ChatOutput{
		SessionID:   sessionID,
		CartActions: []models.CartAction{},
	}

	if strings.TrimSpace(in.Message) == "" {
		out.Message = MessageEmptyInput
		return out
	}

	previous, found, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		slog.WarnContext(ctx, "session lookup failed, starting fresh", "session_id", sessionID, "error", err)
		previous, found = "", false
	}
	if !found {
		previous = ""
	}

	slog.InfoContext(ctx, "chat turn started",
		"session_id", sessionID,
		"continued", previous != "")

	turn := s.driver.Converse(ctx, in.Message, sessionID, previous)
	out.Message = turn.Reply
	out.ResponseID = turn.ResponseID
	out.Outcome = turn.Outcome

	if turn.ResponseID != "" && turn.ResponseID != previous {
		if err := s.sessions.Put(ctx, sessionID, turn.ResponseID); err != nil {
			slog.ErrorContext(ctx, "failed to store continuity token", "session_id", sessionID, "error", err)
		}
	}

	if !turn.Completed() {
		return out
	}

	if !s.classifier.ReferencesProducts(ctx, turn.Reply) {
		return out
	}

	products := turn.Products
	if len(products) == 0 {
		products = s.recovery.Recover(ctx, turn.Reply, sessionID, turn.ResponseID)
	}

	out.CartActions = Synthesize(products, s.opts.MaxCartActions)
	metrics.CartActionsTotal.Add(float64(len(out.CartActions)))

	slog.InfoContext(ctx, "chat turn finished",
		"session_id", sessionID,
		"outcome", turn.Outcome,
		"iterations", turn.Iterations,
		"cart_actions", len(out.CartActions))

	return out
}
