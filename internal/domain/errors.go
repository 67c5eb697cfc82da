package domain

import "errors"

// Common domain errors
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Catalog errors
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuery    = errors.New("invalid search query")
	ErrUnsafeSQL       = errors.New("generated SQL rejected")
	ErrCatalogQuery    = errors.New("catalog query failed")

	// Tool errors
	ErrToolNotFound        = errors.New("tool not found")
	ErrToolExecutionFailed = errors.New("tool execution failed")
	ErrInvalidToolArgs     = errors.New("invalid tool arguments")

	// LLM errors
	ErrLLMUnavailable   = errors.New("LLM service unavailable")
	ErrLLMRequestFailed = errors.New("LLM request failed")
	ErrLLMEmptyResponse = errors.New("LLM returned an empty response")
)
