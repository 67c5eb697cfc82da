package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/chat2purchase/shopassist/internal/adapters/metrics"
	"github.com/chat2purchase/shopassist/internal/domain"
	"github.com/chat2purchase/shopassist/internal/domain/models"
	"github.com/chat2purchase/shopassist/internal/ports"
	"github.com/chat2purchase/shopassist/internal/prompt"
)

const (
	// DefaultMaxIterations bounds the tool rounds of one turn
	DefaultMaxIterations = 10

	MessageProviderError   = "I'm sorry, I'm having trouble reaching the shopping assistant right now. Please try again in a moment."
	MessageEmptyResponse   = "I'm sorry, I wasn't able to come up with a response. Could you try asking again?"
	MessageBudgetExhausted = "I'm sorry, that request took too many steps to complete. Please try again, perhaps with a simpler question."
)

var tracer = otel.Tracer("internal/application/assistant")

// Converser runs one conversation turn
type Converser interface {
	Converse(ctx context.Context, userMessage, sessionID, previousResponseID string) *models.Turn
}

// Driver runs the tool-calling loop against the conversation provider
type Driver struct {
	provider      ports.ResponsesService
	tools         *ToolRegistry
	maxIterations int
}

func NewDriver(provider ports.ResponsesService, tools *ToolRegistry, maxIterations int) *Driver {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Driver{
		provider:      provider,
		tools:         tools,
		maxIterations: maxIterations,
	}
}

// Converse sends the user message and executes requested tools until the
// model answers with text, the model returns nothing, a provider call fails
// or the iteration budget runs out. It never returns an error: failures are
// reported through Turn.Outcome and a user-facing Turn.Reply.
func (d *Driver) Converse(ctx context.Context, userMessage, sessionID, previousResponseID string) *models.Turn {
	ctx, span := tracer.Start(ctx, "assistant.converse")
	defer span.End()

	turn := &models.Turn{
		SessionID:   sessionID,
		UserMessage: userMessage,
		ResponseID:  previousResponseID,
	}
	defer func() {
		span.SetAttributes(
			attribute.String("turn.outcome", string(turn.Outcome)),
			attribute.Int("turn.iterations", turn.Iterations),
			attribute.Int("turn.products", len(turn.Products)),
		)
		metrics.TurnsTotal.WithLabelValues(string(turn.Outcome)).Inc()
		metrics.TurnIterations.Observe(float64(turn.Iterations))
	}()

	defs := d.tools.Definitions()
	req := &ports.ResponseRequest{
		PreviousResponseID: previousResponseID,
		Tools:              defs,
	}
	if previousResponseID == "" {
		req.Input = prompt.FirstTurnInput(userMessage)
	} else {
		req.Input = userMessage
	}

	resp, err := d.provider.Respond(ctx, req)
	if err != nil {
		return d.fail(ctx, turn, err)
	}

	for {
		if resp.ID != "" {
			turn.ResponseID = resp.ID
		}

		switch result := resp.Result.(type) {
		case models.FinalText:
			turn.Reply = result.Text
			turn.Outcome = models.OutcomeCompleted
			return turn

		case models.ToolRequest:
			if turn.Iterations >= d.maxIterations {
				slog.WarnContext(ctx, "tool iteration budget exhausted",
					"session_id", sessionID,
					"iterations", turn.Iterations)
				turn.Reply = MessageBudgetExhausted
				turn.Outcome = models.OutcomeBudgetExhausted
				return turn
			}
			turn.Iterations++

			outputs := d.runTools(ctx, turn, result.Calls)
			resp, err = d.provider.Respond(ctx, &ports.ResponseRequest{
				ToolOutputs:        outputs,
				PreviousResponseID: turn.ResponseID,
				Tools:              defs,
			})
			if err != nil {
				return d.fail(ctx, turn, err)
			}

		default:
			slog.WarnContext(ctx, "provider returned neither text nor tool calls",
				"session_id", sessionID,
				"response_id", resp.ID)
			turn.Reply = MessageEmptyResponse
			turn.Outcome = models.OutcomeEmpty
			turn.Err = domain.ErrLLMEmptyResponse
			return turn
		}
	}
}

// runTools executes calls in order and returns exactly one output per call
func (d *Driver) runTools(ctx context.Context, turn *models.Turn, calls []models.ToolCall) []models.ToolOutput {
	outputs := make([]models.ToolOutput, 0, len(calls))

	for _, call := range calls {
		if call.Arguments == nil {
			call.Arguments = map[string]any{}
		}

		invocation := models.ToolInvocation{Call: call}
		result, err := d.tools.Execute(ctx, call)
		if err != nil {
			slog.ErrorContext(ctx, "tool execution failed",
				"tool", call.Name,
				"call_id", call.ID,
				"error", err)
			invocation.Failed = true
			invocation.Output = models.ToolOutput{
				CallID: call.ID,
				Output: fmt.Sprintf("Error executing tool %s: %s", call.Name, err.Error()),
			}
			if errors.Is(err, domain.ErrToolNotFound) {
				// unbounded names stay out of metric labels
				metrics.ToolCallsTotal.WithLabelValues("unknown", "not_found").Inc()
			} else {
				metrics.ToolCallsTotal.WithLabelValues(call.Name, "error").Inc()
			}
		} else {
			invocation.Output = models.ToolOutput{CallID: call.ID, Output: result.Output}
			invocation.Products = len(result.Products)
			turn.Products = append(turn.Products, result.Products...)
			metrics.ToolCallsTotal.WithLabelValues(call.Name, "success").Inc()
		}

		turn.Invocations = append(turn.Invocations, invocation)
		outputs = append(outputs, invocation.Output)
	}

	return outputs
}

func (d *Driver) fail(ctx context.Context, turn *models.Turn, err error) *models.Turn {
	slog.ErrorContext(ctx, "provider call failed",
		"session_id", turn.SessionID,
		"iterations", turn.Iterations,
		"error", err)
	turn.Reply = MessageProviderError
	turn.Outcome = models.OutcomeProviderError
	turn.Err = err
	return turn
}
