package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chat2purchase/shopassist/internal/adapters/retry"
)

// ResponseTool is a function tool definition in the Responses API format
type ResponseTool struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// FunctionCallOutput is an input item carrying one tool result
type FunctionCallOutput struct {
	Type   string `json:"type"`
	CallID string `json:"call_id"`
	Output string `json:"output"`
}

// CreateResponseRequest is the body of POST /responses. Input is either a
// string or a slice of FunctionCallOutput items.
type CreateResponseRequest struct {
	Model              string         `json:"model"`
	Input              any            `json:"input"`
	Tools              []ResponseTool `json:"tools,omitempty"`
	PreviousResponseID string         `json:"previous_response_id,omitempty"`
}

// ContentPart is one piece of a message output item
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// OutputItem is one entry of a response's output array. Message items carry
// Content; function_call items carry CallID, Name and Arguments.
type OutputItem struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Role      string          `json:"role,omitempty"`
	Content   []ContentPart   `json:"content,omitempty"`
	CallID    string          `json:"call_id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// CreateResponseResponse is the decoded body of a Responses API reply
type CreateResponseResponse struct {
	ID         string       `json:"id"`
	Model      string       `json:"model"`
	Status     string       `json:"status"`
	Output     []OutputItem `json:"output"`
	OutputText string       `json:"output_text,omitempty"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// Client is a Responses API client
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	httpClient  *http.Client
	retryConfig retry.BackoffConfig
}

// NewClient creates a new Responses API client. baseURL includes the version
// segment, e.g. https://api.openai.com/v1.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryConfig: retry.DefaultConfig(),
	}
}

// WithRetryConfig overrides the retry policy
func (c *Client) WithRetryConfig(cfg retry.BackoffConfig) *Client {
	c.retryConfig = cfg
	return c
}

func (c *Client) Model() string {
	return c.model
}

// CreateResponse sends one Responses API request. Model defaults to the
// client's model when empty.
func (c *Client) CreateResponse(ctx context.Context, req CreateResponseRequest) (*CreateResponseResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	respBody, err := retry.Do(ctx, c.retryConfig, func(ctx context.Context) ([]byte, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		httpReq.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, retry.NewStatusError(resp, data)
		}

		return data, nil
	})
	if err != nil {
		return nil, err
	}

	var response CreateResponseResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &response, nil
}
