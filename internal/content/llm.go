package content

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	osdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"

	"github.com/example/outreach-dispatch/internal/config"
	"github.com/example/outreach-dispatch/internal/models"
)

const (
	defaultLLMBaseURL = "https://api.perplexity.ai"
	defaultLLMModel   = "sonar-pro"
	defaultRecipient  = "Student"

	systemPrompt = "You are a helpful assistant for university counseling team to student about admission opened."
)

// LLMOption customises the generator.
type LLMOption func(*llmOptions)

type llmOptions struct {
	requestTimeout time.Duration
	httpClient     *http.Client
}

// WithRequestTimeout bounds each chat-completions call.
func WithRequestTimeout(d time.Duration) LLMOption {
	return func(o *llmOptions) {
		if d > 0 {
			o.requestTimeout = d
		}
	}
}

// WithHTTPClient overrides the HTTP client used by the SDK.
func WithHTTPClient(c *http.Client) LLMOption {
	return func(o *llmOptions) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// LLMGenerator writes messages through an OpenAI-compatible chat-completions
// endpoint (Perplexity by default).
type LLMGenerator struct {
	logger      zerolog.Logger
	client      osdk.Client
	model       string
	temperature float64
}

// NewLLMGenerator builds a generator. It fails when no API key is configured.
func NewLLMGenerator(cfg config.LLMConfig, logger zerolog.Logger, opts ...LLMOption) (*LLMGenerator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("llm generator: PERPLEXITY_API_KEY is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	o := &llmOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultLLMBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultLLMModel
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(maxRetries),
	}
	if o.requestTimeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(o.requestTimeout))
	}
	if o.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(o.httpClient))
	}

	return &LLMGenerator{
		logger:      logger,
		client:      osdk.NewClient(reqOpts...),
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

// Generate asks the model for one message. HTTP 400 maps to a fixed
// bad-request reason; every other failure reports the request error.
func (g *LLMGenerator) Generate(ctx context.Context, prompt Prompt) Result {
	startedAt := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, osdk.ChatCompletionNewParams{
		Model: osdk.ChatModel(g.model),
		Messages: []osdk.ChatCompletionMessageParamUnion{
			osdk.SystemMessage(systemPrompt),
			osdk.UserMessage(BuildUserPrompt(prompt)),
		},
		Temperature: osdk.Float(g.temperature),
	})
	if err != nil {
		var apiErr *osdk.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest {
			g.logger.Error().Err(err).Str("model", g.model).Msg("llm rejected request")
			return GenerationFailed("Bad Request. Check model name or input.")
		}
		g.logger.Error().Err(err).Dur("duration", time.Since(startedAt)).Msg("llm request failed")
		return GenerationFailed(fmt.Sprintf("Request failed: %v", err))
	}
	if len(resp.Choices) == 0 {
		return GenerationFailed("Request failed: response carried no choices")
	}

	text := resp.Choices[0].Message.Content
	g.logger.Debug().
		Str("channel", prompt.Channel.String()).
		Int("length", len(text)).
		Dur("duration", time.Since(startedAt)).
		Msg("llm content generated")
	return Text(text)
}

// BuildUserPrompt renders the user message for a prompt.
func BuildUserPrompt(p Prompt) string {
	name := strings.TrimSpace(p.RecipientName)
	if name == "" {
		name = defaultRecipient
	}
	complexity := p.Complexity
	if complexity == "" {
		complexity = models.ComplexityMedium
	}
	return fmt.Sprintf(
		"A university counselling team on %s. They want to %s. "+
			"Generate a %s message addressed to %s, using %s complexity. "+
			"Keep it friendly and professional. End with a follow-up offer for support and detailed info about university.",
		strings.TrimSpace(p.AudienceContext),
		strings.TrimSpace(p.Need),
		strings.ToUpper(p.Channel.String()),
		name,
		complexity,
	)
}
