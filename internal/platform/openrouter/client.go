package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tendevs/cards-api/internal/config"
	"github.com/tendevs/cards-api/internal/generation"
)

// Client is the raw HTTP client for the OpenRouter API. It performs a single
// request per call and classifies every failure into the generation error
// taxonomy; retries and circuit breaking live in ResilientClient.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	appURL     string
	appName    string
	logger     *slog.Logger
}

// NewClient creates a raw OpenRouter client from the AI configuration.
// If logger is nil, the process default is used.
func NewClient(cfg config.AIConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		appURL:  cfg.AppURL,
		appName: cfg.AppName,
		logger:  logger.With(slog.String("component", "openrouter_client")),
	}
}

// CreateCompletion sends a chat completion request and returns the decoded
// response. Failures are classified: 401/403 to ErrAuthentication, 400-class
// to ErrInvalidRequest, 429 to RateLimitError, 5xx and transport errors to
// ErrTransient, and undecodable bodies to ErrInvalidResponse.
func (c *Client) CreateCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", generation.ErrInvalidRequest, err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/chat/completions",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %v", generation.ErrInvalidRequest, err)
	}
	c.setHeaders(httpReq)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Transport-level failure: DNS, connect, TLS, or timeout.
		return nil, fmt.Errorf("%w: %v", generation.ErrTransient, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != http.StatusOK {
		return nil, c.classifyHTTPError(httpResp)
	}

	var resp ChatCompletionResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response body: %v", generation.ErrInvalidResponse, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: response contains no choices", generation.ErrInvalidResponse)
	}

	return &resp, nil
}

// Ping checks provider reachability with a lightweight authenticated request.
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("%w: failed to build request: %v", generation.ErrInvalidRequest, err)
	}
	c.setHeaders(httpReq)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", generation.ErrTransient, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != http.StatusOK {
		return c.classifyHTTPError(httpResp)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	// Optional attribution headers recognized by OpenRouter.
	if c.appURL != "" {
		req.Header.Set("HTTP-Referer", c.appURL)
	}
	if c.appName != "" {
		req.Header.Set("X-Title", c.appName)
	}
}

// classifyHTTPError maps a non-200 response to the provider error taxonomy.
// The response body is read for the provider's error message but never
// included verbatim in authentication errors to avoid leaking key details.
func (c *Client) classifyHTTPError(resp *http.Response) error {
	msg := readErrorMessage(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.logger.Warn("provider authentication failed",
			slog.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: status %d", generation.ErrAuthentication, resp.StatusCode)

	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		c.logger.Warn("provider rate limit hit",
			slog.Duration("retry_after", retryAfter))
		return fmt.Errorf("openrouter: %s: %w", msg, &generation.RateLimitError{RetryAfter: retryAfter})

	case resp.StatusCode >= 500:
		c.logger.Warn("provider server error",
			slog.Int("status", resp.StatusCode),
			slog.String("message", msg))
		return fmt.Errorf("%w: status %d: %s", generation.ErrTransient, resp.StatusCode, msg)

	default:
		// Remaining 4xx statuses mean the request itself was rejected.
		c.logger.Warn("provider rejected request",
			slog.Int("status", resp.StatusCode),
			slog.String("message", msg))
		return fmt.Errorf("%w: status %d: %s", generation.ErrInvalidRequest, resp.StatusCode, msg)
	}
}

// readErrorMessage extracts the provider error message from a response body,
// falling back to a generic message when the body is not the expected shape.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return "unreadable error body"
	}

	var envelope errorResponse
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return "no error detail provided"
}

// parseRetryAfter handles both delta-seconds and HTTP-date forms of the
// Retry-After header. Returns zero when absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}

	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
