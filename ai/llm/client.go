package llm

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Config represents completion client configuration.
type Config struct {
	Model   string // model name sent with every request
	APIKey  string
	BaseURL string // OpenAI-compatible endpoint root, default api.openai.com/v1
	Timeout int    // per-attempt request timeout in seconds (default: 120)
	Retry   RetryConfig
}

// RetryConfig bounds the backoff loop for rate-limited and failing requests.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt, so at
	// most MaxRetries+1 requests are sent per call.
	MaxRetries int

	// InitialDelay is the first backoff duration; it doubles per retry.
	InitialDelay time.Duration
}

// DefaultRetryConfig returns the retry defaults for summarization requests.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   6,
		InitialDelay: 10 * time.Second,
	}
}

// Client issues summarization calls against an OpenAI-compatible completion
// endpoint with bounded exponential-backoff retries. Each Summarize call
// owns its own retry state, so a single Client is safe for concurrent use.
type Client struct {
	client  *openai.Client
	model   string
	catalog *Catalog
	retry   RetryConfig
}

// NewClient creates a completion client. A nil catalog disables the
// token-budget pre-flight check entirely.
func NewClient(cfg *Config, catalog *Catalog) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120
	}
	clientConfig.HTTPClient = newHTTPClient(time.Duration(timeout) * time.Second)

	retry := cfg.Retry
	if retry.InitialDelay <= 0 {
		retry = DefaultRetryConfig()
	}

	if catalog == nil {
		catalog = NewCatalog(nil)
	}

	return &Client{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		catalog: catalog,
		retry:   retry,
	}
}

// Summarize sends prompt to the completion endpoint and returns the
// generated text. 429 and 500 responses are retried with exponential
// backoff; 404 is treated as a credentials/account problem and every other
// failure, including transport errors, is terminal. A non-nil error is
// always a *Error.
func (c *Client) Summarize(ctx context.Context, prompt string) (string, error) {
	tokenCount := EstimateTokens(prompt)
	if descriptor, ok := c.catalog.Lookup(c.model); ok && tokenCount > descriptor.TokenBudget {
		slog.Warn("prompt is too large for the selected model, skipping summarization",
			"model", c.model,
			"tokens", tokenCount,
			"budget", descriptor.TokenBudget,
		)
		return "", &Error{
			Kind:        KindTokenBudgetExceeded,
			TokenCount:  tokenCount,
			TokenBudget: descriptor.TokenBudget,
		}
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", &Error{Kind: KindCanceled, Attempts: attempt, Err: err}
		}
		if attempt > c.retry.MaxRetries {
			slog.Error("max retries reached, completion request failed", "attempts", attempt)
			return "", &Error{Kind: KindRetriesExhausted, Attempts: attempt}
		}

		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", &Error{
					Kind:     KindRequestFailed,
					Attempts: attempt + 1,
					Err:      errors.New("completion response has no choices"),
				}
			}
			return resp.Choices[0].Message.Content, nil
		}

		if ctx.Err() != nil {
			return "", &Error{Kind: KindCanceled, Attempts: attempt + 1, Err: ctx.Err()}
		}

		status := statusCode(err)
		switch status {
		case http.StatusTooManyRequests, http.StatusInternalServerError:
			// retryable, backoff below
		case http.StatusNotFound:
			slog.Error("completion endpoint rejected the API key, usually a free rather than a paid account",
				"status", status, "error", err)
			return "", &Error{Kind: KindAuthOrAccount, StatusCode: status, Attempts: attempt + 1, Err: err}
		default:
			slog.Error("completion request failed", "status", status, "error", err)
			return "", &Error{Kind: KindRequestFailed, StatusCode: status, Attempts: attempt + 1, Err: err}
		}

		delay := c.retry.InitialDelay * (1 << attempt)
		slog.Warn("completion endpoint busy, retrying",
			"status", status,
			"attempt", attempt+1,
			"delay", delay,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", &Error{Kind: KindCanceled, Attempts: attempt + 1, Err: ctx.Err()}
		}
	}
}

// statusCode extracts the HTTP status from a go-openai error. Transport
// failures and malformed bodies have no status and map to 0.
func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}
