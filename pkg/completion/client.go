// Package completion sends a conversation transcript to an OpenAI-compatible
// chat completions endpoint and resolves the exchange into a single Outcome.
//
// Each call makes at most MaxAttempts requests. Every 429 answer waits
// RateLimitWait, the last one included; transport failures and malformed
// responses are retried immediately. Failures are never returned as errors
// from Complete, they are carried in the Outcome.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/papercomputeco/relay/pkg/conversation"
	"github.com/papercomputeco/relay/pkg/logger"
	"github.com/papercomputeco/relay/pkg/utils"
)

const (
	DefaultEndpoint     = "https://api.openai.com/v1/chat/completions"
	DefaultModel        = openai.GPT4oMini
	DefaultSystemPrompt = "Explain things like you're talking to a software professional with 2 years of experience."

	// MaxAttempts bounds the requests made by one Complete call.
	MaxAttempts = 3

	// RateLimitWait is slept after every 429.
	RateLimitWait = 20 * time.Second

	// LLM responses can be slow
	defaultHTTPTimeout = 5 * time.Minute

	// maxLoggedBody caps response bodies echoed into the log.
	maxLoggedBody = 256
)

// Config holds the values injected into a Client at construction time.
type Config struct {
	// Endpoint is the full chat completions URL.
	Endpoint string

	// APIKey is sent as a bearer credential. Required.
	APIKey string

	// Model is the upstream model identifier.
	Model string

	// SystemPrompt is prepended to every request and never shown.
	SystemPrompt string
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Option configures a Client created with New.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithSleeper replaces the rate limit wait. Tests use it to record waits
// instead of sleeping.
func WithSleeper(s Sleeper) Option {
	return func(c *Client) {
		c.sleep = s
	}
}

// Client issues completion requests for a transcript.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
	sleep      Sleeper
}

// New creates a Client. Empty Endpoint, Model and SystemPrompt fields fall
// back to their defaults; an empty APIKey is an error.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}

	c := &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     logger.Nop(),
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.config.Model
}

// Complete requests the next assistant turn for t.
func (c *Client) Complete(ctx context.Context, t conversation.Transcript) Outcome {
	body, err := json.Marshal(c.BuildRequest(t))
	if err != nil {
		c.logger.Error("encoding completion request", "error", err)
		return Outcome{Err: fmt.Errorf("%w: encoding request: %w", ErrRetriesExhausted, err)}
	}

	log := c.logger.With("model", c.config.Model, "messages", t.Len()+1)

	var (
		lastErr  error
		attempts int
	)

	for remaining := MaxAttempts; remaining > 0; {
		attempts++
		content, err := c.attempt(ctx, body)
		if err == nil {
			log.Debug("completion received", "attempt", attempts)
			return Outcome{
				Turn:     conversation.NewAssistantTurn(content),
				Attempts: attempts,
			}
		}

		lastErr = err
		remaining--

		if ctx.Err() != nil {
			break
		}

		if errors.Is(err, ErrRateLimited) {
			log.Warn("upstream rate limited",
				"attempt", attempts,
				"attempts_remaining", remaining,
			)
			log.Warn("waiting after rate limit", "wait", RateLimitWait)
			if err := c.sleep(ctx, RateLimitWait); err != nil {
				lastErr = err
				break
			}
			continue
		}

		log.Error("completion attempt failed",
			"attempt", attempts,
			"attempts_remaining", remaining,
			"error", err,
		)
	}

	log.Error("no completion after retries", "attempts", attempts, "error", lastErr)
	return Outcome{
		Err:      fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempts, lastErr),
		Attempts: attempts,
	}
}

// attempt performs one request and returns the first choice's content.
func (c *Client) attempt(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %w", ErrTransport, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: sending request: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", ErrRateLimited
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %w", ErrTransport, err)
	}

	var parsed openai.ChatCompletionResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("%w: decoding response (status %d): %w", ErrTransport, resp.StatusCode, err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: status %d: %s",
			ErrMalformedResponse, resp.StatusCode, utils.Truncate(string(payload), maxLoggedBody))
	}

	return parsed.Choices[0].Message.Content, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
