package ports

import (
	"context"

	"github.com/chat2purchase/shopassist/internal/domain/models"
)

// ResponseRequest is one call to the conversation provider. Exactly one of
// Input or ToolOutputs is set.
type ResponseRequest struct {
	Input              string
	ToolOutputs        []models.ToolOutput
	PreviousResponseID string
	Tools              []models.ToolDefinition
}

// ResponsesService drives the stateful conversation provider. Implementations
// normalize every accepted wire shape into a models.Result before returning.
type ResponsesService interface {
	Respond(ctx context.Context, req *ResponseRequest) (*models.ProviderResponse, error)
}

// CompletionRequest is a single-shot instruction + text exchange used by the
// secondary classifier, extractor and SQL generator calls.
type CompletionRequest struct {
	Name        string
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// CompletionService sends stateless chat completions
type CompletionService interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CatalogSearcher is the natural-language product search capability
type CatalogSearcher interface {
	Search(ctx context.Context, query string) (*models.SearchResult, error)
}

// SessionStore maps a session ID to the provider's last continuity token
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (string, bool, error)
	Put(ctx context.Context, sessionID, responseID string) error
}

// IDGenerator generates session identifiers
type IDGenerator interface {
	GenerateSessionID() string
}

// Pinger reports dependency liveness for detailed health checks
type Pinger interface {
	Ping(ctx context.Context) error
}
