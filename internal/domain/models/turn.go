package models

// TurnOutcome classifies how a conversation turn ended
type TurnOutcome string

const (
	OutcomeCompleted       TurnOutcome = "completed"
	OutcomeEmpty           TurnOutcome = "empty"
	OutcomeProviderError   TurnOutcome = "provider_error"
	OutcomeBudgetExhausted TurnOutcome = "budget_exhausted"
)

// Turn is one request/response round-trip with the provider. It is not
// persisted beyond the call.
type Turn struct {
	SessionID   string
	UserMessage string
	Reply       string
	// ResponseID is the last continuity token obtained, or the incoming one
	// when the provider never answered.
	ResponseID  string
	Invocations []ToolInvocation
	Products    []Product
	Outcome     TurnOutcome
	Iterations  int
	Err         error
}

// Completed reports whether the reply came from the model rather than a
// fallback message.
func (t *Turn) Completed() bool {
	return t.Outcome == OutcomeCompleted
}
