// Package oracle is the client for the chat-completions endpoint that
// proposes NPC actions.
package oracle

//go:generate mockgen -destination=mock/mock_client.go -package=oraclemock github.com/KirkDiggler/rpg-encounter/internal/clients/oracle Client

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/KirkDiggler/rpg-encounter/internal/errors"
)

// Defaults for the completion request
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTimeout     = 30 * time.Second
	DefaultTemperature = 0.15
	DefaultMaxTokens   = 400
)

// Client sends one system and one user message and returns the reply text
type Client interface {
	// Complete returns the first choice's text, which may be empty.
	// Returns errors.Unavailable with ReasonOracleUnavailable on transport
	// failure, timeout or a non-success status.
	Complete(ctx context.Context, input *CompleteInput) (*CompleteOutput, error)
}

// CompleteInput defines the prompt for one completion
type CompleteInput struct {
	System string
	User   string
}

// CompleteOutput carries the raw reply
type CompleteOutput struct {
	Text  string
	Model string
}

// Config contains configuration options for the oracle client.
type Config struct {
	APIKey string
	// Model (optional, defaults to gpt-4o-mini)
	Model string
	// BaseURL overrides the API location (optional)
	BaseURL string
	// Timeout bounds every call (optional, defaults to 30 seconds)
	Timeout time.Duration
	// HTTPClient overrides the transport (optional)
	HTTPClient *http.Client
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if cfg.APIKey == "" {
		vb.RequiredField("APIKey")
	}
	if cfg.Timeout < 0 {
		vb.InvalidField("Timeout", "must be positive")
	}
	if err := vb.Build(); err != nil {
		return err
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return nil
}

type client struct {
	api     openai.Client
	model   string
	timeout time.Duration
}

// New creates a new oracle client with the given configuration.
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		// a failed call falls back to end_turn upstream instead of retrying
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &client{
		api:     openai.NewClient(opts...),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

func (c *client) Complete(ctx context.Context, input *CompleteInput) (*CompleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(input.System),
			openai.UserMessage(input.User),
		},
		Temperature: openai.Float(DefaultTemperature),
		MaxTokens:   openai.Int(DefaultMaxTokens),
	})
	if err != nil {
		slog.WarnContext(ctx, "oracle call failed",
			"model", c.model,
			"duration", time.Since(start),
			"error", err.Error())
		return nil, errors.OracleUnavailable(err)
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	slog.DebugContext(ctx, "oracle replied",
		"model", resp.Model,
		"duration", time.Since(start),
		"chars", len(text))

	return &CompleteOutput{Text: text, Model: resp.Model}, nil
}
