// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/elia-tui/internal/model"
)

// Client configuration constants.
const (
	// DefaultTimeout is the default timeout for non-streaming requests.
	DefaultTimeout = 60 * time.Second

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 10 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// Error variables for common provider failures.
var (
	// ErrNotConfigured indicates no API key is available for the provider.
	ErrNotConfigured = errors.New("API key not configured")

	// ErrAuthFailed indicates authentication failed (invalid or expired API key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelNotFound indicates the provider does not know the model.
	ErrModelNotFound = errors.New("model not found")

	// ErrInsufficientCredits indicates the account has insufficient credits.
	ErrInsufficientCredits = errors.New("insufficient credits")
)

// APIError is an error reported by a provider.
type APIError struct {
	Code    string
	Message string
	Status  int
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider error (%d): %s [%s]", e.Status, e.Message, e.Code)
	}
	return fmt.Sprintf("provider error (%d): %s", e.Status, e.Message)
}

// =============================================================================
// TRANSPORT BOUNDARY
// =============================================================================

// Completer produces the assistant's reply to a conversation.
type Completer interface {
	Complete(ctx context.Context, m model.ModelConfig, messages []model.ChatMessage) (string, error)
}

// =============================================================================
// PROVIDERS
// =============================================================================

type provider struct {
	name    string
	baseURL string
	envKey  string
	prefix  string // stripped from the model name before sending
}

var (
	providerOpenAI = provider{
		name:    "openai",
		baseURL: "https://api.openai.com/v1",
		envKey:  "OPENAI_API_KEY",
		prefix:  "openai/",
	}
	providerAnthropic = provider{
		name:    "anthropic",
		baseURL: "https://api.anthropic.com/v1",
		envKey:  "ANTHROPIC_API_KEY",
		prefix:  "anthropic/",
	}
	providerGemini = provider{
		name:    "gemini",
		baseURL: "https://generativelanguage.googleapis.com/v1beta/openai",
		envKey:  "GEMINI_API_KEY",
		prefix:  "gemini/",
	}
)

func providerFor(m model.ModelConfig) provider {
	switch {
	case strings.EqualFold(m.Provider, "google"), strings.HasPrefix(m.Name, "gemini/"):
		return providerGemini
	case strings.EqualFold(m.Provider, "anthropic"), strings.HasPrefix(m.Name, "claude"),
		strings.HasPrefix(m.Name, "anthropic/"):
		return providerAnthropic
	default:
		return providerOpenAI
	}
}

// endpoint is everything needed to address one model.
type endpoint struct {
	url          string
	apiKey       string
	organization string
	model        string
}

// =============================================================================
// WIRE TYPES
// =============================================================================

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (r *chatResponse) content() string {
	if len(r.Choices) > 0 {
		return r.Choices[0].Message.Content
	}
	return ""
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

func toWire(messages []model.ChatMessage) []wireMessage {
	out := make([]wireMessage, 0, len(messages))
	for _, msg := range messages {
		out = append(out, wireMessage{Role: msg.Role.String(), Content: msg.Content})
	}
	return out
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a Completer for OpenAI-compatible chat endpoints. It is safe for
// concurrent use; all per-request state comes from the ModelConfig.
type Client struct {
	httpClient   *http.Client
	streamClient *http.Client
	logger       *zap.Logger
	getenv       func(string) string
	baseDelay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for both plain and streaming
// requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
		c.streamClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithEnv overrides the environment lookup used for API keys.
func WithEnv(getenv func(string) string) Option {
	return func(c *Client) { c.getenv = getenv }
}

// WithRetryDelay sets the base delay of the retry backoff.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.baseDelay = d }
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		// Streaming is bounded by the request context instead.
		streamClient: &http.Client{},
		logger:       zap.NewNop(),
		getenv:       os.Getenv,
		baseDelay:    retryBaseDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("llm")
	return c
}

// endpointFor resolves where and how to send requests for m.
func (c *Client) endpointFor(m model.ModelConfig) (endpoint, error) {
	p := providerFor(m)
	ep := endpoint{
		url:          p.baseURL + "/chat/completions",
		apiKey:       m.APIKey.Reveal(),
		organization: m.Organization,
		model:        m.Name,
	}

	if m.APIBase != "" {
		ep.url = m.APIBase + "/chat/completions"
	} else {
		ep.model = strings.TrimPrefix(m.Name, p.prefix)
	}

	if ep.apiKey == "" {
		ep.apiKey = c.getenv(p.envKey)
	}
	// Self-hosted endpoints often need no key at all.
	if ep.apiKey == "" && m.APIBase == "" {
		return endpoint{}, fmt.Errorf("%w: set api_key for %q or %s", ErrNotConfigured, m.LookupKey(), p.envKey)
	}
	return ep, nil
}

func (c *Client) setHeaders(req *http.Request, ep endpoint) {
	if ep.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+ep.apiKey)
	}
	if ep.organization != "" {
		req.Header.Set("OpenAI-Organization", ep.organization)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "elia")
}

// Complete sends messages to the model and returns the assistant's reply.
//
// Rate limiting and server errors are retried up to m.MaxRetries times with
// exponential backoff.
func (c *Client) Complete(ctx context.Context, m model.ModelConfig, messages []model.ChatMessage) (string, error) {
	ep, err := c.endpointFor(m)
	if err != nil {
		return "", err
	}

	reqBody := chatRequest{
		Model:       ep.model,
		Messages:    toWire(messages),
		Temperature: m.Temperature,
	}

	var lastErr error
	for attempt := 0; attempt <= m.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.calculateBackoff(attempt)
			c.logger.Debug("retrying completion",
				zap.Object("model", m),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		start := time.Now()
		resp, err := c.doRequest(ctx, ep, reqBody)
		if err != nil {
			if isRetryable(err) {
				lastErr = err
				continue
			}
			c.logger.Warn("completion failed", zap.Object("model", m), zap.Error(err))
			return "", err
		}

		c.logger.Debug("completion finished",
			zap.Object("model", m),
			zap.Duration("elapsed", time.Since(start)))
		return resp.content(), nil
	}

	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doRequest performs a single HTTP request to the chat completions endpoint.
func (c *Client) doRequest(ctx context.Context, ep endpoint, reqBody chatRequest) (*chatResponse, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, ep)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, handleErrorResponse(resp.StatusCode, body)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &chatResp, nil
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts HTTP error responses to errors.
func handleErrorResponse(statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		pErr := &APIError{
			Code:    errorCode(apiErr.Error.Code, apiErr.Error.Type),
			Message: apiErr.Error.Message,
			Status:  statusCode,
		}

		switch statusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrAuthFailed, pErr.Message)
		case http.StatusPaymentRequired:
			return fmt.Errorf("%w: %s", ErrInsufficientCredits, pErr.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrModelNotFound, pErr.Message)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", ErrRateLimited, pErr.Message)
		default:
			return pErr
		}
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthFailed
	case http.StatusPaymentRequired:
		return ErrInsufficientCredits
	case http.StatusNotFound:
		return ErrModelNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return &APIError{
			Message: strings.TrimSpace(string(body)),
			Status:  statusCode,
		}
	}
}

// errorCode normalises the code field, which providers send as either a
// string or a number.
func errorCode(code any, typ string) string {
	switch v := code.(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return typ
}

// isRetryable determines if an error should trigger a retry.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var pErr *APIError
	if errors.As(err, &pErr) {
		return pErr.Status >= 500 && pErr.Status < 600
	}
	return false
}

// calculateBackoff returns the delay to wait before the next retry.
// The delay doubles per attempt and never exceeds retryMaxDelay.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	if c.baseDelay <= 0 {
		return 0
	}
	delay := c.baseDelay
	for i := 1; i < attempt && delay < retryMaxDelay; i++ {
		delay *= 2
	}
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}
