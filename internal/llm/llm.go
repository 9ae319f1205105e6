// Package llm talks to an OpenAI-compatible chat completion endpoint.
// Each Client is bound to one model role (chat, extraction, generation) with
// its own model name, temperature and token limit.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pkordes/trip-planner/internal/metrics"
)

// Role is the author of a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a completion prompt.
type Message struct {
	Role    Role
	Content string
}

// Completer produces the text completion of a prompt.
// Agent, extractor, and generator depend on this interface, not on Client.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// ErrEmptyCompletion is returned when the endpoint answers without any choice.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// Options configures a Client.
type Options struct {
	// Role names the client in metrics and logs, e.g. "chat".
	Role string

	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int

	// Timeout bounds a single request, retries included. Zero means no timeout.
	Timeout time.Duration
	// MaxRetries is the transport-level retry count of the SDK. Defaults to 2.
	MaxRetries *int
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client

	Metrics *metrics.Metrics
}

// Client implements Completer with the openai-go SDK.
type Client struct {
	client  openai.Client
	opts    Options
	metrics *metrics.Metrics
}

// New builds a Client for one model role.
func New(opts Options) *Client {
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}
	if opts.MaxRetries != nil {
		reqOpts = append(reqOpts, option.WithMaxRetries(*opts.MaxRetries))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	return &Client{
		client:  openai.NewClient(reqOpts...),
		opts:    opts,
		metrics: opts.Metrics,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.opts.Model }

// Complete sends messages and returns the text of the first choice.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.opts.Model),
		Messages:    toParams(messages),
		Temperature: openai.Float(c.opts.Temperature),
	}
	if c.opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.opts.MaxTokens))
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err == nil && len(resp.Choices) == 0 {
		err = ErrEmptyCompletion
	}
	c.metrics.ObserveLLM(c.opts.Role, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("llm.Client.Complete(%s): %w", c.opts.Role, err)
	}

	return resp.Choices[0].Message.Content, nil
}

func toParams(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// CompleterFunc adapts a plain function to Completer.
type CompleterFunc func(ctx context.Context, messages []Message) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, messages []Message) (string, error) {
	return f(ctx, messages)
}
