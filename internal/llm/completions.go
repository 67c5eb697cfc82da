package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/chat2purchase/shopassist/internal/adapters/metrics"
	"github.com/chat2purchase/shopassist/internal/domain"
	"github.com/chat2purchase/shopassist/internal/ports"
)

// CompletionClient implements ports.CompletionService with go-openai chat
// completions. It backs the classifier, the name extractor and SQL generation.
type CompletionClient struct {
	client *openai.Client
	model  string
}

// NewCompletionClient builds a chat-completions client. baseURL is the full API
// base, e.g. https://api.openai.com/v1.
func NewCompletionClient(baseURL, apiKey, model string, timeout time.Duration) *CompletionClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &CompletionClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Complete sends a system + user exchange and returns the first choice's content
func (c *CompletionClient) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "llm.chat", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("llm.model", c.model),
		attribute.String("llm.purpose", req.Name),
	)

	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	metrics.LLMRequestDuration.WithLabelValues(c.model).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(c.model, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("%w: %s: %w", domain.ErrLLMRequestFailed, req.Name, err)
	}
	metrics.LLMRequestsTotal.WithLabelValues(c.model, "success").Inc()

	span.SetAttributes(
		attribute.Int("llm.usage.input_tokens", resp.Usage.PromptTokens),
		attribute.Int("llm.usage.output_tokens", resp.Usage.CompletionTokens),
	)

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrLLMEmptyResponse, req.Name)
	}

	return resp.Choices[0].Message.Content, nil
}
