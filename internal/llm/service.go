package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/chat2purchase/shopassist/internal/adapters/circuitbreaker"
	"github.com/chat2purchase/shopassist/internal/adapters/metrics"
	"github.com/chat2purchase/shopassist/internal/domain"
	"github.com/chat2purchase/shopassist/internal/domain/models"
	"github.com/chat2purchase/shopassist/internal/ports"
)

const (
	// LLMTimeout is the maximum time to wait for one provider response
	LLMTimeout = 2 * time.Minute
)

var tracer = otel.Tracer("internal/llm")

// Service implements ports.ResponsesService on top of the Responses API client
type Service struct {
	client  *Client
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
}

// NewService creates a new conversation provider service
func NewService(client *Client, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = LLMTimeout
	}
	return &Service{
		client: client,
		breaker: circuitbreaker.New("responses", 5, 30*time.Second,
			circuitbreaker.WithStateChange(recordBreakerState)),
		timeout: timeout,
	}
}

func recordBreakerState(name string, _, to circuitbreaker.State) {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
}

func countable(err error) bool {
	return !errors.Is(err, context.Canceled)
}

// Respond sends one request and normalizes the reply
func (s *Service) Respond(ctx context.Context, req *ports.ResponseRequest) (*models.ProviderResponse, error) {
	ctx, span := tracer.Start(ctx, "llm.respond", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", s.client.Model()),
		attribute.Bool("llm.request.continued", req.PreviousResponseID != ""),
		attribute.Int("llm.request.tool_outputs", len(req.ToolOutputs)),
	)

	start := time.Now()
	var result *models.ProviderResponse
	err := s.breaker.Execute(func() error {
		var err error
		result, err = s.doRespond(ctx, req)
		return err
	}, countable)

	metrics.LLMRequestDuration.WithLabelValues(s.client.Model()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(s.client.Model(), "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
		}
		return nil, err
	}
	metrics.LLMRequestsTotal.WithLabelValues(s.client.Model(), "success").Inc()

	span.SetAttributes(attribute.String("llm.response.id", result.ID))
	switch r := result.Result.(type) {
	case models.ToolRequest:
		span.SetAttributes(attribute.Int("llm.response.tool_calls", len(r.Calls)))
	case models.FinalText:
		span.SetAttributes(attribute.Int("llm.response.content_length", len(r.Text)))
	}

	return result, nil
}

func (s *Service) doRespond(ctx context.Context, req *ports.ResponseRequest) (*models.ProviderResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	wireReq := CreateResponseRequest{
		PreviousResponseID: req.PreviousResponseID,
		Tools:              convertTools(req.Tools),
	}
	if len(req.ToolOutputs) > 0 {
		wireReq.Input = convertToolOutputs(req.ToolOutputs)
	} else {
		wireReq.Input = req.Input
	}

	response, err := s.client.CreateResponse(ctx, wireReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMRequestFailed, err)
	}

	return &models.ProviderResponse{
		ID:     response.ID,
		Model:  response.Model,
		Result: Normalize(response),
	}, nil
}

func convertTools(tools []models.ToolDefinition) []ResponseTool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]ResponseTool, len(tools))
	for i, t := range tools {
		out[i] = ResponseTool{
			Type:        "function",
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Schema,
		}
	}
	return out
}

func convertToolOutputs(outputs []models.ToolOutput) []FunctionCallOutput {
	items := make([]FunctionCallOutput, len(outputs))
	for i, o := range outputs {
		items[i] = FunctionCallOutput{
			Type:   "function_call_output",
			CallID: o.CallID,
			Output: o.Output,
		}
	}
	return items
}

// Normalize reduces a raw response to exactly one Result variant. Text wins
// over tool calls; with neither the result is EmptyResult.
func Normalize(resp *CreateResponseResponse) models.Result {
	var text strings.Builder
	var calls []models.ToolCall

	for _, item := range resp.Output {
		switch item.Type {
		case "message":
			for _, part := range item.Content {
				if part.Type == "output_text" {
					text.WriteString(part.Text)
				}
			}
		case "function_call":
			calls = append(calls, models.ToolCall{
				ID:        item.CallID,
				Name:      item.Name,
				Arguments: ParseArguments(item.Arguments),
			})
		}
	}

	reply := text.String()
	if strings.TrimSpace(reply) == "" {
		reply = resp.OutputText
	}

	switch {
	case strings.TrimSpace(reply) != "":
		return models.FinalText{Text: reply}
	case len(calls) > 0:
		return models.ToolRequest{Calls: calls}
	default:
		return models.EmptyResult{}
	}
}

// ParseArguments accepts a JSON object, a JSON string containing an object,
// or nothing. Anything unreadable becomes an empty map.
func ParseArguments(raw json.RawMessage) map[string]any {
	args := make(map[string]any)
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return args
	}

	if strings.HasPrefix(trimmed, `"`) {
		var encoded string
		if err := json.Unmarshal([]byte(trimmed), &encoded); err != nil {
			return args
		}
		trimmed = strings.TrimSpace(encoded)
		if trimmed == "" {
			return args
		}
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil || parsed == nil {
		return args
	}
	return parsed
}
