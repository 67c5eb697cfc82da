package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/chat2purchase/shopassist/internal/domain"
	"github.com/chat2purchase/shopassist/internal/domain/models"
	"github.com/chat2purchase/shopassist/internal/ports"
	"github.com/chat2purchase/shopassist/internal/prompt"
)

// ToolResult is what one tool execution hands back to the driver
type ToolResult struct {
	Output   string
	Products []models.Product
}

// ToolHandler is a tool the conversation model may call
type ToolHandler interface {
	Definition() models.ToolDefinition
	Execute(ctx context.Context, call models.ToolCall) (*ToolResult, error)
}

// ToolRegistry dispatches tool calls by name
type ToolRegistry struct {
	handlers map[string]ToolHandler
	order    []string
}

func NewToolRegistry(handlers ...ToolHandler) *ToolRegistry {
	r := &ToolRegistry{handlers: make(map[string]ToolHandler, len(handlers))}
	for _, h := range handlers {
		name := h.Definition().Name
		if _, exists := r.handlers[name]; !exists {
			r.order = append(r.order, name)
		}
		r.handlers[name] = h
	}
	return r
}

// Definitions returns tool definitions in registration order
func (r *ToolRegistry) Definitions() []models.ToolDefinition {
	defs := make([]models.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.handlers[name].Definition())
	}
	return defs
}

func (r *ToolRegistry) Execute(ctx context.Context, call models.ToolCall) (*ToolResult, error) {
	h, ok := r.handlers[call.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrToolNotFound, call.Name)
	}
	return h.Execute(ctx, call)
}

// SearchTool exposes catalog search as search_products_nl
type SearchTool struct {
	searcher ports.CatalogSearcher
}

func NewSearchTool(searcher ports.CatalogSearcher) *SearchTool {
	return &SearchTool{searcher: searcher}
}

func (t *SearchTool) Definition() models.ToolDefinition {
	return prompt.SearchTool()
}

func (t *SearchTool) Execute(ctx context.Context, call models.ToolCall) (*ToolResult, error) {
	query, ok := call.StringArg("query")
	if !ok || strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query must be a non-empty string", domain.ErrInvalidToolArgs)
	}

	result, err := t.searcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	out := &ToolResult{Output: result.Message}
	if result.Found() {
		out.Products = result.Products
	}
	return out, nil
}
