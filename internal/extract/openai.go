package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kvasirlabs/leadscan/internal/fetch"
	"github.com/kvasirlabs/leadscan/internal/model"
)

// Client defaults. All of them can be overridden through options.
const (
	// defaultEndpoint is the OpenAI chat-completions endpoint. Any
	// server speaking the same protocol (llama.cpp, vLLM, Ollama) works
	// via WithEndpoint.
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"

	// defaultModel balances extraction quality against per-page cost.
	defaultModel = "gpt-4o-mini"

	// defaultMaxPromptChars caps the page text sent per request.
	defaultMaxPromptChars = 8000

	// defaultMaxRetries is the number of retries after the first
	// attempt for transient failures (transport errors, 429, 5xx).
	defaultMaxRetries = 4

	// defaultRetryBase is the first backoff delay; it doubles per retry.
	defaultRetryBase = 500 * time.Millisecond

	// backoffJitter is added to every backoff delay to spread out
	// concurrent workers that failed at the same moment.
	backoffJitter = 250 * time.Millisecond

	// defaultRateLimit bounds outgoing requests per second across all
	// workers sharing the client.
	defaultRateLimit = 2

	// defaultRateBurst matches the engine's worker ceiling so a fresh
	// wave can start without queueing on the limiter.
	defaultRateBurst = 10

	// maxResponseSize caps how much of an API response body is read.
	maxResponseSize = 1 * 1024 * 1024 // 1MB
)

// Client extracts decision makers through an OpenAI-compatible
// chat-completions API. It is safe for concurrent use; the rate limiter
// is shared across all goroutines calling Extract.
type Client struct {
	apiKey         string
	endpoint       string
	model          string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBase      time.Duration
	maxPromptChars int
	validate       ValidateFunc
	logger         *slog.Logger
}

var _ Extractor = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithEndpoint points the client at a different chat-completions URL.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithModel selects the model name sent in requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient replaces the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithRateLimit sets the client-side request rate. rps <= 0 disables
// rate limiting entirely.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMaxPromptChars caps the page text included per request.
func WithMaxPromptChars(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxPromptChars = n
		}
	}
}

// WithValidateFunc replaces the default candidate validation policy.
func WithValidateFunc(fn ValidateFunc) ClientOption {
	return func(c *Client) {
		if fn != nil {
			c.validate = fn
		}
	}
}

// WithLogger sets the logger for debug output (dropped candidates,
// unparseable model answers, retry attempts).
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates an extraction client. The API key is required; every
// other setting has a default.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		apiKey:         apiKey,
		endpoint:       defaultEndpoint,
		model:          defaultModel,
		client:         &http.Client{Timeout: 60 * time.Second},
		limiter:        rate.NewLimiter(rate.Limit(defaultRateLimit), defaultRateBurst),
		maxRetries:     defaultMaxRetries,
		retryBase:      defaultRetryBase,
		maxPromptChars: defaultMaxPromptChars,
		validate:       ValidatePerson,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// chatMessage is one entry of the messages array.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the chat-completions request body.
type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse is the subset of the chat-completions response we use.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extract sends the page text to the API and returns the validated
// decision-maker candidates. Pages with no harvestable text yield zero
// records without an API call.
func (c *Client) Extract(ctx context.Context, page *fetch.Page) ([]model.Person, error) {
	if page == nil || strings.TrimSpace(page.Text) == "" {
		return nil, nil
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: extractionInstruction},
			{Role: "user", Content: buildUserPrompt(page, c.maxPromptChars)},
		},
		Temperature:    0,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode extraction request: %w", err)
	}

	content, err := c.complete(ctx, body)
	if err != nil {
		return nil, err
	}

	candidates, ok := decodeDecisionMakers(content)
	if !ok {
		c.logger.Debug("unparseable model output, treating page as empty",
			slog.String("url", page.URL))
		return nil, nil
	}

	people := make([]model.Person, 0, len(candidates))
	for _, p := range candidates {
		if !c.validate(p) {
			c.logger.Debug("dropped implausible candidate",
				slog.String("name", p.Name),
				slog.String("title", p.Title),
				slog.String("url", page.URL))
			continue
		}
		people = append(people, p)
	}
	return people, nil
}

// complete performs the API call with retries. Transport errors, 429 and
// 5xx responses are retried with exponential backoff; credential and
// other client errors fail fast.
func (c *Client) complete(ctx context.Context, body []byte) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying extraction request",
				slog.Int("attempt", attempt),
				slog.String("reason", lastErr.Error()))
			if err := c.backoff(ctx, attempt); err != nil {
				return "", err
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter interrupted: %w", err)
		}

		content, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return content, nil
		}
		if !retryable {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("extraction failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// doRequest performs one HTTP round trip and classifies the outcome.
func (c *Client) doRequest(ctx context.Context, body []byte) (content string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("failed to build extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, fmt.Errorf("extraction cancelled: %w", ctx.Err())
		}
		return "", true, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", true, fmt.Errorf("failed to read extraction response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", false, fmt.Errorf("%w: HTTP %d", ErrBadCredential, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", true, fmt.Errorf("%w: HTTP 429", ErrRateLimited)
	case resp.StatusCode >= 500:
		return "", true, fmt.Errorf("extraction API server error: HTTP %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", false, fmt.Errorf("extraction API returned HTTP %d: %s", resp.StatusCode, snippet(respBody))
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", false, fmt.Errorf("%w: malformed envelope: %v", ErrEmptyResponse, err)
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return "", false, fmt.Errorf("%w: no choices", ErrEmptyResponse)
	}
	return cr.Choices[0].Message.Content, false, nil
}

// backoff sleeps for the attempt's exponential delay plus jitter,
// honoring context cancellation.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	delay := c.retryBase*time.Duration(1<<uint(attempt-1)) + rand.N(backoffJitter)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// snippet returns the first part of an API error body for messages.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		return "(empty body)"
	}
	return s
}
