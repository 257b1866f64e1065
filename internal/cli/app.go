package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"docqa/internal/chunker"
	"docqa/internal/config"
	"docqa/internal/domain"
	"docqa/internal/embedding"
	"docqa/internal/llm"
	"docqa/internal/loader"
	"docqa/internal/service"
	"docqa/internal/summarizer"
	"docqa/internal/vectorstore"
)

// newPipeline assembles the ingestion pipeline described by cfg.
func newPipeline(cfg *config.AppConfig) (*service.Pipeline, error) {
	var ch domain.Chunker
	switch cfg.Chunker.Type {
	case "word", "":
		ch = chunker.NewWordChunker(cfg.Chunker.MaxWords)
	case "sentence":
		ch = chunker.NewSentenceChunker(cfg.Chunker.SentencesPerChunk, cfg.Chunker.OverlapSentences)
	default:
		return nil, fmt.Errorf("unknown chunker: %s", cfg.Chunker.Type)
	}

	emb, err := embedding.New(cfg.Embedder)
	if err != nil {
		return nil, err
	}

	var sum domain.Summarizer
	switch cfg.Summarizer.Type {
	case "frequency", "":
		sum = summarizer.NewFrequencySummarizer()
	case "none":
	default:
		return nil, fmt.Errorf("unknown summarizer: %s", cfg.Summarizer.Type)
	}

	indexCfg := cfg.Index
	build := func(ctx context.Context, ids []int, vectors [][]float32) (domain.VectorIndex, error) {
		return vectorstore.Build(ctx, indexCfg, ids, vectors)
	}
	return service.NewPipeline(loader.New(), ch, emb, build, sum, cfg.Summarizer.MaxSentences), nil
}

// ingest builds the corpus for cfg.DocumentsDir.
func ingest(ctx context.Context, cfg *config.AppConfig) (*service.Corpus, error) {
	p, err := newPipeline(cfg)
	if err != nil {
		return nil, err
	}
	return p.Ingest(ctx, cfg.DocumentsDir)
}

// newAnswerService connects corpus to the configured language model.
func newAnswerService(cfg *config.AppConfig, corpus *service.Corpus) *service.AnswerService {
	client := llm.NewClient(llm.Config{
		BaseURL:   cfg.LLM.BaseURL,
		APIKeyEnv: cfg.LLM.APIKeyEnv,
		Model:     cfg.LLM.Model,
		Timeout:   time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})
	log.Info().Str("model", client.Model()).Int("k", cfg.Retrieval.TopK).Msg("answer service ready")
	return service.NewAnswerService(corpus, client, service.AnswerOptions{TopK: cfg.Retrieval.TopK})
}
