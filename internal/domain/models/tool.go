package models

// ToolDefinition describes a callable tool to the LLM provider
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"parameters"`
}

// ToolCall is one model-issued tool invocation. Arguments is never nil once
// normalized at the provider boundary.
type ToolCall struct {
	ID        string         `json:"call_id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// StringArg returns the named argument when it is a string.
func (c ToolCall) StringArg(name string) (string, bool) {
	if c.Arguments == nil {
		return "", false
	}
	s, ok := c.Arguments[name].(string)
	return s, ok
}

// ToolOutput is the result returned to the provider for a ToolCall, keyed by
// the originating call ID.
type ToolOutput struct {
	CallID string `json:"call_id"`
	Output string `json:"output"`
}

// ToolInvocation records one executed call within a turn
type ToolInvocation struct {
	Call     ToolCall   `json:"call"`
	Output   ToolOutput `json:"output"`
	Failed   bool       `json:"failed"`
	Products int        `json:"products"`
}

// Result is the normalized shape of a provider response. Exactly one of
// FinalText, ToolRequest or EmptyResult.
type Result interface {
	isResult()
}

// FinalText carries the model's textual reply
type FinalText struct {
	Text string
}

// ToolRequest carries one or more tool-call directives
type ToolRequest struct {
	Calls []ToolCall
}

// EmptyResult is a provider response with neither text nor tool calls
type EmptyResult struct{}

func (FinalText) isResult()   {}
func (ToolRequest) isResult() {}
func (EmptyResult) isResult() {}

// ProviderResponse is one normalized provider round-trip. ID is the
// continuity token to submit on the next call.
type ProviderResponse struct {
	ID     string
	Model  string
	Result Result
}
