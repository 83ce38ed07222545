package reasoning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"
)

const (
	defaultModel      = "claude-sonnet-4-20250514"
	defaultMaxTokens  = 4096
	retryMaxElapsed   = 2 * time.Minute
	responseEnvelope  = "Respond with a single JSON object and nothing else: " +
		`{"outcome": "completed"|"blocked"|"failed"|"needs_more_context", ` +
		`"summary": "...", "modified_files": [...], "questions": [...]}`
)

// AnthropicClient implements Client against the Anthropic Messages API.
type AnthropicClient struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// AnthropicOption customizes the client.
type AnthropicOption func(*AnthropicClient)

// WithModel overrides the default model.
func WithModel(model string) AnthropicOption {
	return func(c *AnthropicClient) {
		if model != "" {
			c.model = anthropic.Model(model)
		}
	}
}

// NewAnthropicClient creates a client. The ANTHROPIC_API_KEY environment
// variable takes precedence over the explicit apiKey. A missing key is a
// configuration error surfaced immediately, never retried.
func NewAnthropicClient(apiKey string, opts ...AnthropicOption) (*AnthropicClient, error) {
	if envKey := os.Getenv("ANTHROPIC_API_KEY"); envKey != "" {
		apiKey = envKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key required: set ANTHROPIC_API_KEY")
	}

	c := &AnthropicClient{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     anthropic.Model(defaultModel),
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ExecutePrompt sends the rendered prompt and interprets the JSON envelope
// the model returns. Transient API failures (rate limits, 5xx, network
// timeouts) are retried with exponential backoff; everything else fails
// immediately.
func (c *AnthropicClient) ExecutePrompt(ctx context.Context, req Request) (*Result, error) {
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: req.SystemPrompt + "\n\n" + responseEnvelope},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
	}

	var message *anthropic.Message
	operation := func() error {
		m, err := c.client.Messages.New(ctx, params)
		if err != nil {
			if isRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		message = m
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = retryMaxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	tokens := int(message.Usage.InputTokens + message.Usage.OutputTokens)

	if len(message.Content) == 0 {
		return nil, fmt.Errorf("unexpected response format: no content blocks")
	}
	content := message.Content[0]
	if content.Type != "text" {
		return nil, fmt.Errorf("unexpected response format: not a text block (type=%s)", content.Type)
	}

	result, err := parseEnvelope(content.Text)
	if err != nil {
		return nil, err
	}
	result.TokensUsed = tokens
	return result, nil
}

// parseEnvelope extracts the JSON result object from the model's reply,
// tolerating surrounding prose and markdown fences.
func parseEnvelope(text string) (*Result, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("response contains no JSON object")
	}

	var result Result
	if err := json.Unmarshal([]byte(text[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("parsing response envelope: %w", err)
	}

	switch result.Outcome {
	case OutcomeCompleted, OutcomeBlocked, OutcomeFailed, OutcomeNeedsMoreContext:
	case "":
		return nil, fmt.Errorf("response envelope missing outcome")
	default:
		return nil, fmt.Errorf("unknown outcome in response: %s", result.Outcome)
	}

	result.Success = result.Outcome == OutcomeCompleted
	return &result, nil
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}

	return false
}
