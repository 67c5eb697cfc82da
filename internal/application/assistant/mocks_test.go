package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/chat2purchase/shopassist/internal/domain/models"
	"github.com/chat2purchase/shopassist/internal/ports"
	"github.com/chat2purchase/shopassist/internal/prompt"
)

// ============================================================================
// Provider
// ============================================================================

// mockProvider answers each Respond call through handle and records requests
type mockProvider struct {
	mu       sync.Mutex
	requests []ports.ResponseRequest
	handle   func(n int, req *ports.ResponseRequest) (*models.ProviderResponse, error)
}

func (m *mockProvider) Respond(_ context.Context, req *ports.ResponseRequest) (*models.ProviderResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, *req)
	n := len(m.requests)
	m.mu.Unlock()
	return m.handle(n, req)
}

func (m *mockProvider) calls() []ports.ResponseRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.ResponseRequest(nil), m.requests...)
}

// scripted returns the responses in order; calls beyond the script fail
func scripted(responses ...*models.ProviderResponse) *mockProvider {
	return &mockProvider{
		handle: func(n int, _ *ports.ResponseRequest) (*models.ProviderResponse, error) {
			if n > len(responses) {
				return nil, errors.New("unexpected provider call")
			}
			r := responses[n-1]
			if r == nil {
				return nil, errors.New("provider unavailable")
			}
			return r, nil
		},
	}
}

func textResponse(id, text string) *models.ProviderResponse {
	return &models.ProviderResponse{ID: id, Result: models.FinalText{Text: text}}
}

func toolResponse(id string, calls ...models.ToolCall) *models.ProviderResponse {
	return &models.ProviderResponse{ID: id, Result: models.ToolRequest{Calls: calls}}
}

func emptyResponse(id string) *models.ProviderResponse {
	return &models.ProviderResponse{ID: id, Result: models.EmptyResult{}}
}

func searchCall(id, query string) models.ToolCall {
	return models.ToolCall{ID: id, Name: prompt.SearchToolName, Arguments: map[string]any{"query": query}}
}

// ============================================================================
// Catalog
// ============================================================================

type mockSearcher struct {
	mu      sync.Mutex
	queries []string
	results map[string]*models.SearchResult
	err     error
}

func newMockSearcher() *mockSearcher {
	return &mockSearcher{results: make(map[string]*models.SearchResult)}
}

func (m *mockSearcher) found(query string, products ...models.Product) *mockSearcher {
	m.results[query] = &models.SearchResult{
		Query:    query,
		Status:   models.SearchStatusFound,
		Products: products,
		Message:  "Found products",
	}
	return m
}

func (m *mockSearcher) Search(_ context.Context, query string) (*models.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	if r, ok := m.results[query]; ok {
		return r, nil
	}
	return &models.SearchResult{
		Query:   query,
		Status:  models.SearchStatusNoResults,
		Message: "I couldn't find any products matching your search in our catalog.",
	}, nil
}

func (m *mockSearcher) searched() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// ============================================================================
// Completions
// ============================================================================

// mockCompletions replies by request name
type mockCompletions struct {
	mu      sync.Mutex
	replies map[string]string
	errs    map[string]error
	calls   map[string]int
}

func newMockCompletions() *mockCompletions {
	return &mockCompletions{
		replies: make(map[string]string),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (m *mockCompletions) reply(name, text string) *mockCompletions {
	m.replies[name] = text
	return m
}

func (m *mockCompletions) fail(name string, err error) *mockCompletions {
	m.errs[name] = err
	return m
}

func (m *mockCompletions) Complete(_ context.Context, req ports.CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[req.Name]++
	if err := m.errs[req.Name]; err != nil {
		return "", err
	}
	return m.replies[req.Name], nil
}

func (m *mockCompletions) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

const (
	classifyName = "classify_products"
	extractName  = "extract_product_names"
)

// ============================================================================
// Sessions and IDs
// ============================================================================

type mockSessionStore struct {
	mu     sync.Mutex
	tokens map[string]string
	puts   int
	getErr error
	putErr error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{tokens: make(map[string]string)}
}

func (m *mockSessionStore) Get(_ context.Context, id string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	t, ok := m.tokens[id]
	return t, ok, nil
}

func (m *mockSessionStore) Put(_ context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.tokens[id] = token
	return nil
}

type mockIDGenerator struct {
	next int
}

func (m *mockIDGenerator) GenerateSessionID() string {
	m.next++
	return "sess_" + strings.Repeat("x", m.next)
}
