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

	"github.com/josephgoksu/PromptWing/models"
	"github.com/josephgoksu/PromptWing/types"
)

const (
	// DefaultTimeout is the per-attempt HTTP timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries bounds attempts on rate-limited responses.
	DefaultMaxRetries = 3
	// retryBaseDelay is multiplied by the attempt number for linear backoff.
	retryBaseDelay = 2 * time.Second

	requestTemperature = 0.7
	requestMaxTokens   = 4000
)

// defaultEndpoints maps hosted backends to their chat completion URLs.
// The custom backend carries its endpoint in the ServiceConfig instead.
var defaultEndpoints = map[types.ServiceName]string{
	types.ServiceDeepSeek:   "https://api.deepseek.com/chat/completions",
	types.ServiceKimi:       "https://api.moonshot.cn/v1/chat/completions",
	types.ServiceOpenRouter: "https://openrouter.ai/api/v1/chat/completions",
}

// Client is an OpenAI-compatible chat completion client with bounded
// timeout, rate-limit retry, and error classification.
type Client struct {
	timeout    time.Duration
	maxRetries int
	debug      bool

	// endpoints and sleep are swapped out in tests.
	endpoints map[types.ServiceName]string
	sleep     func(time.Duration)
}

// NewClient creates a Client with options. Non-positive timeout or retry
// values fall back to the defaults.
func NewClient(timeout time.Duration, maxRetries int, debug bool) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Client{
		timeout:    timeout,
		maxRetries: maxRetries,
		debug:      debug,
		endpoints:  defaultEndpoints,
		sleep:      time.Sleep,
	}
}

// chatRequest is the OpenAI-compatible request payload.
type chatRequest struct {
	Model       string           `json:"model"`
	Messages    []models.Message `json:"messages"`
	Temperature float64          `json:"temperature"`
	MaxTokens   int              `json:"max_tokens"`
}

// chatResponse is the subset of the completion response we consume.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Chat sends the conversation to the configured backend and returns the
// assistant's text. Only rate-limited responses are retried, with linearly
// increasing backoff; every other failure surfaces immediately as a typed
// error.
func (c *Client) Chat(ctx context.Context, messages []models.Message, cfg types.ServiceConfig) (string, error) {
	if cfg.APIKey == "" || cfg.Model == "" {
		return "", types.NewError(types.ErrConfiguration, "API key or model is not configured")
	}

	endpoint, err := c.resolveEndpoint(cfg)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		content, err := c.doRequest(ctx, endpoint, messages, cfg)
		if err == nil {
			return content, nil
		}
		lastErr = err

		if types.IsCode(err, types.ErrRateLimited) && attempt < c.maxRetries {
			delay := time.Duration(attempt) * retryBaseDelay
			if c.debug {
				fmt.Fprintf(os.Stderr, "[llm] rate limited (attempt %d/%d), retrying in %v\n", attempt, c.maxRetries, delay)
			}
			c.sleep(delay)
			continue
		}
		return "", err
	}
	return "", lastErr
}

// resolveEndpoint picks the target URL for the service. A custom backend
// without an endpoint is a configuration error, not a network error.
func (c *Client) resolveEndpoint(cfg types.ServiceConfig) (string, error) {
	if cfg.Service == types.ServiceCustom {
		if cfg.Endpoint == "" {
			return "", types.NewError(types.ErrConfiguration, "custom backend requires an endpoint URL")
		}
		return cfg.Endpoint, nil
	}
	endpoint, ok := c.endpoints[cfg.Service]
	if !ok {
		return "", types.NewError(types.ErrConfiguration, fmt.Sprintf("unsupported service: %s", cfg.Service))
	}
	return endpoint, nil
}

// doRequest performs a single attempt with its own timeout.
func (c *Client) doRequest(ctx context.Context, endpoint string, messages []models.Message, cfg types.ServiceConfig) (string, error) {
	payload := chatRequest{
		Model:       cfg.Model,
		Messages:    messages,
		Temperature: requestTemperature,
		MaxTokens:   requestMaxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", types.WrapError(types.ErrUnknown, "failed to encode request", err)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", types.WrapError(types.ErrConfiguration, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	if cfg.Service == types.ServiceOpenRouter {
		// OpenRouter requires these identifying headers.
		req.Header.Set("HTTP-Referer", "https://github.com/josephgoksu/PromptWing")
		req.Header.Set("X-Title", "PromptWing")
	}

	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() == context.DeadlineExceeded {
			return "", types.WrapError(types.ErrNetwork, fmt.Sprintf("request timed out after %v", c.timeout), err)
		}
		return "", types.WrapError(types.ErrNetwork, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", types.WrapError(types.ErrNetwork, "failed to read response", err)
	}
	if c.debug {
		fmt.Fprintf(os.Stderr, "[llm] %s %s in %v (status %s, bytes %d)\n", cfg.Service, cfg.Model, time.Since(start), resp.Status, len(raw))
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyRemoteError(resp.StatusCode, remoteErrorMessage(raw, resp.Status))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", types.WrapError(types.ErrParse, "response is not valid JSON", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", types.NewError(types.ErrParse, "malformed response: missing choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// remoteErrorMessage extracts the provider error message from a failed
// response, falling back to the HTTP status line.
func remoteErrorMessage(raw []byte, status string) string {
	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	if len(raw) > 0 {
		return fmt.Sprintf("HTTP %s: %s", status, strings.TrimSpace(string(raw)))
	}
	return "HTTP " + status
}

// classifyRemoteError maps a failed response onto the error taxonomy,
// inspecting the status code first and the message text second.
func classifyRemoteError(status int, message string) *types.ProviderError {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return types.NewError(types.ErrAuth, "invalid API key: "+message)
	case http.StatusTooManyRequests:
		return types.NewError(types.ErrRateLimited, "rate limited: "+message)
	case http.StatusPaymentRequired:
		return types.NewError(types.ErrQuota, "quota exceeded: "+message)
	case http.StatusNotFound:
		return types.NewError(types.ErrModelNotFound, "model not found: "+message)
	}

	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "api key") || strings.Contains(lower, "unauthorized"):
		return types.NewError(types.ErrAuth, message)
	case strings.Contains(lower, "rate limit"):
		return types.NewError(types.ErrRateLimited, message)
	case strings.Contains(lower, "quota") || strings.Contains(lower, "insufficient"):
		return types.NewError(types.ErrQuota, message)
	case strings.Contains(lower, "model"):
		return types.NewError(types.ErrModelNotFound, message)
	case status >= http.StatusInternalServerError:
		return types.NewError(types.ErrNetwork, message)
	}
	return types.NewError(types.ErrUnknown, message)
}

// Validate sends a one-message probe and reports success. The underlying
// error is logged in debug mode and never propagated.
func (c *Client) Validate(ctx context.Context, cfg types.ServiceConfig) bool {
	probe := []models.Message{{Role: "user", Content: "Hello"}}
	if _, err := c.Chat(ctx, probe, cfg); err != nil {
		if c.debug {
			fmt.Fprintf(os.Stderr, "[llm] config validation failed: %v\n", err)
		}
		return false
	}
	return true
}
