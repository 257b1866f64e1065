package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// ErrMissingKey is returned by Complete when no API key is configured.
var ErrMissingKey = errors.New("missing API key")

// Config configures an OpenAI-compatible chat completions client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// Client sends single-turn chat completion requests.
type Client struct {
	baseURL   string
	apiKey    string
	apiKeyEnv string
	model     string
	timeout   time.Duration
}

// NewClient reads the API key from the configured environment variable. A
// missing key is reported by Complete, not here.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    strings.TrimPrefix(os.Getenv(cfg.APIKeyEnv), "Bearer "),
		apiKeyEnv: cfg.APIKeyEnv,
		model:     cfg.Model,
		timeout:   cfg.Timeout,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Complete sends a system and a user message and returns the content of the
// first choice.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: set %s", ErrMissingKey, c.apiKeyEnv)
	}
	model, err := openai.New(
		openai.WithBaseURL(c.baseURL),
		openai.WithToken(c.apiKey),
		openai.WithModel(c.model),
		openai.WithHTTPClient(&http.Client{Timeout: c.timeout}),
	)
	if err != nil {
		return "", err
	}

	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, user),
	}
	start := time.Now()
	resp, err := model.GenerateContent(ctx, messages)
	if err != nil {
		log.Warn().Err(err).Str("model", c.model).Dur("elapsed", time.Since(start)).Msg("chat completion failed")
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	log.Debug().Str("model", c.model).Dur("elapsed", time.Since(start)).Msg("chat completion")
	return resp.Choices[0].Content, nil
}
