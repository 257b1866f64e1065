package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"docqa/internal/domain"
)

// DocumentLoader reads the documents of a folder.
type DocumentLoader interface {
	Load(ctx context.Context, dir string) ([]domain.Document, error)
}

// IndexBuilder builds a vector index over (ids, vectors).
type IndexBuilder func(ctx context.Context, ids []int, vectors [][]float32) (domain.VectorIndex, error)

// Pipeline turns a documents folder into a searchable Corpus.
type Pipeline struct {
	loader              DocumentLoader
	chunker             domain.Chunker
	embedder            domain.Embedder
	buildIndex          IndexBuilder
	summarizer          domain.Summarizer
	summaryMaxSentences int
}

// NewPipeline assembles an ingestion pipeline. The summarizer may be nil.
func NewPipeline(loader DocumentLoader, chunker domain.Chunker, embedder domain.Embedder, buildIndex IndexBuilder, summarizer domain.Summarizer, summaryMaxSentences int) *Pipeline {
	return &Pipeline{
		loader:              loader,
		chunker:             chunker,
		embedder:            embedder,
		buildIndex:          buildIndex,
		summarizer:          summarizer,
		summaryMaxSentences: summaryMaxSentences,
	}
}

// Ingest loads, chunks, embeds and indexes every document in dir. All errors
// wrap domain.ErrIngestion.
func (p *Pipeline) Ingest(ctx context.Context, dir string) (*Corpus, error) {
	start := time.Now()
	docs, err := p.loader.Load(ctx, dir)
	if err != nil {
		return nil, ingestionError("load documents", err)
	}

	var chunks []domain.Chunk
	var texts []string
	var all strings.Builder
	for _, d := range docs {
		docChunks, err := p.chunker.Chunk(d)
		if err != nil {
			return nil, ingestionError("chunk "+d.Name, err)
		}
		for _, ch := range docChunks {
			ch.ID = len(chunks)
			chunks = append(chunks, ch)
			texts = append(texts, ch.Text)
		}
		all.WriteString(d.Content)
		all.WriteString("\n")
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no text found in %s", domain.ErrIngestion, dir)
	}

	if err := p.embedder.Prepare(ctx, texts); err != nil {
		return nil, ingestionError("prepare embedder", err)
	}
	vectors, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, ingestionError("embed chunks", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: %d embeddings for %d chunks", domain.ErrIngestion, len(vectors), len(chunks))
	}

	ids := make([]int, len(chunks))
	for i, ch := range chunks {
		ids[i] = ch.ID
	}
	index, err := p.buildIndex(ctx, ids, vectors)
	if err != nil {
		return nil, ingestionError("build index", err)
	}

	var summary string
	if p.summarizer != nil {
		summary, err = p.summarizer.Summarize(all.String(), p.summaryMaxSentences)
		if err != nil {
			return nil, ingestionError("summarize", err)
		}
	}

	log.Info().
		Str("dir", dir).
		Int("documents", len(docs)).
		Int("chunks", len(chunks)).
		Int("dimension", index.Dimension()).
		Str("embedder", p.embedder.Name()).
		Dur("elapsed", time.Since(start)).
		Msg("corpus indexed")
	return newCorpus(docs, chunks, p.embedder, index, summary), nil
}

func ingestionError(step string, err error) error {
	if errors.Is(err, domain.ErrIngestion) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrIngestion, step, err)
}
