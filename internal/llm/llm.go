package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Backend selects which configured model serves a completion request.
type Backend string

const (
	// BackendAuthoring is the fast model used to synthesize questions.
	BackendAuthoring Backend = "authoring"
	// BackendTutoring is the model used to explain wrong answers.
	BackendTutoring Backend = "tutoring"
)

// Client wraps an OpenAI-compatible API client with two configured
// backends. Every call carries a bounded timeout; transient failures are
// retried once.
type Client struct {
	api       *openai.Client
	authoring string
	tutoring  string
	timeout   time.Duration
}

// New creates a new LLM client.
func New(baseURL, apiKey, authoringModel, tutoringModel string, timeout time.Duration) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		api:       openai.NewClientWithConfig(config),
		authoring: authoringModel,
		tutoring:  tutoringModel,
		timeout:   timeout,
	}
}

// Complete sends a single-prompt completion request to the selected
// backend and returns the raw response text.
func (c *Client) Complete(ctx context.Context, backend Backend, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		out, err := c.complete(ctx, backend, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !isTransient(err) {
			break
		}
		slog.Warn("completion failed, retrying", "backend", backend, "error", err)
	}
	return "", lastErr
}

func (c *Client) complete(ctx context.Context, backend Backend, prompt string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(cctx, openai.ChatCompletionRequest{
		Model: c.modelFor(backend),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("completion API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("completion response", "backend", backend, "raw", raw)
	return raw, nil
}

func (c *Client) modelFor(b Backend) string {
	if b == BackendTutoring {
		return c.tutoring
	}
	return c.authoring
}

// isTransient reports whether a completion error is worth one retry:
// timeouts, rate limits, and server-side failures.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests ||
			apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	return false
}

// Ping verifies the API endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if _, err := c.api.ListModels(cctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
