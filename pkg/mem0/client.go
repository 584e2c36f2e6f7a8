package mem0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"

	"github.com/EternisAI/recollect/pkg/parsing"
)

// DefaultBaseURL is the hosted Mem0 platform endpoint.
const DefaultBaseURL = "https://api.mem0.ai"

// Client talks to a Mem0-style memory backend. It is stateless per call and
// safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *clog.Logger
}

// NewClient creates a memory backend client authenticated with apiKey.
func NewClient(apiKey string, options ...ClientOption) *Client {
	client := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range options {
		opt(client)
	}

	return client
}

// ClientOption represents configuration options for the backend client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different backend endpoint.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets a logger for the client.
func WithLogger(logger *clog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

type addRequest struct {
	Messages           []parsing.Message `json:"messages"`
	UserID             string            `json:"user_id"`
	Version            string            `json:"version"`
	Metadata           map[string]any    `json:"metadata,omitempty"`
	CustomInstructions *string           `json:"custom_instructions,omitempty"`
	Includes           *string           `json:"includes,omitempty"`
	Excludes           *string           `json:"excludes,omitempty"`
	Infer              *bool             `json:"infer,omitempty"`
}

type searchRequest struct {
	Query   string `json:"query"`
	Filters Filter `json:"filters"`
	Limit   int    `json:"limit,omitempty"`
}

type getAllRequest struct {
	Filters Filter `json:"filters"`
	Limit   int    `json:"limit,omitempty"`
}

// recordList tolerates both response shapes the platform has used: a bare
// array and an object wrapping it under "results".
type recordList []Record

func (l *recordList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, (*[]Record)(l))
	}
	var wrapped struct {
		Results []Record `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	*l = wrapped.Results
	return nil
}

// Add stores a message sequence as memories for opts.UserID.
func (c *Client) Add(ctx context.Context, messages []parsing.Message, opts AddOptions) ([]Record, error) {
	if len(messages) == 0 {
		return nil, &ValidationError{Reason: "no messages to add"}
	}
	if strings.TrimSpace(opts.UserID) == "" {
		return nil, &ValidationError{Reason: "user_id is required"}
	}

	req := addRequest{
		Messages:           messages,
		UserID:             opts.UserID,
		Version:            "v2",
		Metadata:           opts.Metadata,
		CustomInstructions: opts.CustomInstructions,
		Includes:           opts.Includes,
		Excludes:           opts.Excludes,
		Infer:              opts.Infer,
	}
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/memories/", req)
	if err != nil {
		return nil, err
	}

	var result recordList
	if err := c.handleResponse(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Search runs a semantic query over the memories matching filter.
func (c *Client) Search(ctx context.Context, query string, filter Filter, limit int) ([]Record, error) {
	req := searchRequest{Query: query, Filters: filter, Limit: limit}
	resp, err := c.doRequest(ctx, http.MethodPost, "/v2/memories/search/", req)
	if err != nil {
		return nil, err
	}

	var result recordList
	if err := c.handleResponse(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAll lists the memories matching filter without semantic ranking.
func (c *Client) GetAll(ctx context.Context, filter Filter, limit int) ([]Record, error) {
	req := getAllRequest{Filters: filter, Limit: limit}
	resp, err := c.doRequest(ctx, http.MethodPost, "/v2/memories/", req)
	if err != nil {
		return nil, err
	}

	var result recordList
	if err := c.handleResponse(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Ping verifies connectivity and the API key with a minimal scoped query.
// The probe user never needs to exist; a bad key still fails with a 401.
func (c *Client) Ping(ctx context.Context) error {
	filter, err := NewFilterBuilder("recollect-ping").Build()
	if err != nil {
		return err
	}
	if _, err := c.GetAll(ctx, filter, 1); err != nil {
		return err
	}
	return nil
}

// doRequest performs an HTTP request and handles common response processing.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	if c.logger != nil {
		c.logger.Debug("mem0 API request", "method", method, "path", path)
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("mem0 API request failed", "method", method, "path", path, "error", err)
		}
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug("mem0 API response", "method", method, "path", path, "status", resp.StatusCode)
	}

	return resp, nil
}

// handleResponse processes an HTTP response and unmarshals JSON.
func (c *Client) handleResponse(resp *http.Response, result any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &BackendError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// errorMessage pulls the most specific message out of an error body. The
// platform uses "detail"; proxies in front of it have used "message" and
// "error".
func errorMessage(body []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, msg := range []string{payload.Detail, payload.Message, payload.Error} {
			if msg != "" {
				return msg
			}
		}
	}
	return strings.TrimSpace(string(body))
}
