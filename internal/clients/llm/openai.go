package llm

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/KirkDiggler/rpg-gm/internal/engine/sanitize"
	"github.com/KirkDiggler/rpg-gm/internal/entities"
	"github.com/KirkDiggler/rpg-gm/internal/errors"
)

const (
	// DefaultBaseURL is Ollama's OpenAI-compatible endpoint
	DefaultBaseURL = "http://localhost:11434/v1/"

	defaultTimeout = 120 * time.Second

	// Ollama ignores the key but the SDK requires one
	placeholderAPIKey = "ollama"

	// the chat API accepts at most four stop sequences
	maxStopSequences = 4
)

// Config configures the OpenAI-compatible client
type Config struct {
	// BaseURL of the API (optional, defaults to the local Ollama endpoint)
	BaseURL string
	// APIKey (optional for Ollama)
	APIKey string
	// Timeout per request (optional, defaults to 120 seconds)
	Timeout time.Duration
	// StopSequences sent with every completion (optional, defaults to the
	// sanitizer's chat-format tokens)
	StopSequences []string
	// HTTPClient overrides the transport (optional)
	HTTPClient *http.Client
}

// Validate validates the Config and sets defaults if not provided
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if cfg.APIKey == "" {
		cfg.APIKey = placeholderAPIKey
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.StopSequences == nil {
		cfg.StopSequences = sanitize.StopSequences
	}

	vb := errors.NewValidationBuilder()
	if cfg.Timeout < 0 {
		vb.InvalidField("Timeout", "must not be negative")
	}
	if len(cfg.StopSequences) > maxStopSequences {
		vb.Fieldf("StopSequences", "at most %d are allowed", maxStopSequences)
	}
	return vb.Build()
}

type client struct {
	api  openai.Client
	stop []string
}

// New creates a model client with the given configuration
func New(cfg *Config) (Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		// a failed step is surfaced, never retried behind the caller's back
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &client{
		api:  openai.NewClient(opts...),
		stop: cfg.StopSequences,
	}, nil
}

func (c *client) Complete(ctx context.Context, input *CompleteInput) (*CompleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Model == "" {
		return nil, errors.InvalidArgument("model is required")
	}
	if len(input.Messages) == 0 {
		return nil, errors.InvalidArgument("messages are required")
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(input.Model),
		Messages: toParams(input.Messages),
	}
	if len(c.stop) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: c.stop}
	}

	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, upstreamError(err, "chat completion failed").WithMeta("model", input.Model)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.Unavailablef("model %s returned no choices", input.Model)
	}

	slog.Debug("Model completion",
		"model", input.Model,
		"messages", len(input.Messages),
		"duration_ms", time.Since(start).Milliseconds(),
		"finish_reason", resp.Choices[0].FinishReason)

	model := resp.Model
	if model == "" {
		model = input.Model
	}

	return &CompleteOutput{
		Text:  resp.Choices[0].Message.Content,
		Model: model,
	}, nil
}

func (c *client) ListModels(ctx context.Context) ([]string, error) {
	page, err := c.api.Models.List(ctx)
	if err != nil {
		return nil, upstreamError(err, "failed to list models")
	}

	names := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		if m.ID != "" {
			names = append(names, m.ID)
		}
	}
	return names, nil
}

func toParams(msgs []entities.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case entities.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case entities.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// upstreamError maps transport, timeout and API failures to Unavailable.
// A canceled caller stays Canceled.
func upstreamError(err error, message string) *errors.Error {
	if errors.IsCanceled(err) {
		return errors.Wrap(err, message)
	}

	wrapped := errors.WrapWithCode(err, errors.CodeUnavailable, message)

	var apiErr *openai.Error
	if stderrors.As(err, &apiErr) {
		wrapped.WithMeta("status", apiErr.StatusCode)
	}
	return wrapped
}
