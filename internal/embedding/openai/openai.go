package openai

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// Client is an OpenAI-compatible embeddings client implementing domain.Embedder.
// The vector dimension is fixed by the first response and enforced afterwards.
type Client struct {
	model     string
	dimension int
	embedder  *embeddings.EmbedderImpl
}

// Config configures the OpenAI-compatible embeddings client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
	BatchSize int
}

// NewClient creates a new embeddings client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}
	llm, err := lcopenai.New(
		lcopenai.WithBaseURL(cfg.BaseURL),
		lcopenai.WithToken(key),
		lcopenai.WithEmbeddingModel(cfg.Model),
		lcopenai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("init openai embeddings: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm,
		embeddings.WithBatchSize(cfg.BatchSize),
		embeddings.WithStripNewLines(true),
	)
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}
	return &Client{model: cfg.Model, embedder: embedder}, nil
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "openai" }

// Prepare is not required for remote embedding.
func (c *Client) Prepare(context.Context, []string) error { return nil }

// Dimension returns the dimensionality of the produced embedding vectors, or
// zero before the first call.
func (c *Client) Dimension() int { return c.dimension }

// EmbedDocuments returns one vector per text, in input order.
func (c *Client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	start := time.Now()
	vectors, err := c.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("openai embeddings failed: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("openai embeddings returned %d vectors for %d texts", len(vectors), len(texts))
	}
	for _, v := range vectors {
		if err := c.checkDimension(v); err != nil {
			return nil, err
		}
	}
	log.Debug().Str("model", c.model).Int("texts", len(texts)).Dur("elapsed", time.Since(start)).Msg("embedded documents")
	return vectors, nil
}

// EmbedQuery returns the embedding of a single query.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	v, err := c.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("openai embeddings failed: %w", err)
	}
	if err := c.checkDimension(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Client) checkDimension(v []float32) error {
	if len(v) == 0 {
		return fmt.Errorf("empty embedding")
	}
	if c.dimension == 0 {
		c.dimension = len(v)
		return nil
	}
	if len(v) != c.dimension {
		return fmt.Errorf("embedding dimension changed from %d to %d", c.dimension, len(v))
	}
	return nil
}
