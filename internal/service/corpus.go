package service

import (
	"context"
	"fmt"

	"docqa/internal/domain"
)

// Corpus is the immutable result of ingestion: the chunks, the embedder that
// produced their vectors and the index built over them.
type Corpus struct {
	documents []string
	chunks    []domain.Chunk
	byID      map[int]int
	embedder  domain.Embedder
	index     domain.VectorIndex
	summary   string
}

func newCorpus(docs []domain.Document, chunks []domain.Chunk, embedder domain.Embedder, index domain.VectorIndex, summary string) *Corpus {
	c := &Corpus{
		documents: make([]string, len(docs)),
		chunks:    chunks,
		byID:      make(map[int]int, len(chunks)),
		embedder:  embedder,
		index:     index,
		summary:   summary,
	}
	for i, d := range docs {
		c.documents[i] = d.Name
	}
	for i, ch := range chunks {
		c.byID[ch.ID] = i
	}
	return c
}

// Documents returns the names of the ingested documents.
func (c *Corpus) Documents() []string { return append([]string(nil), c.documents...) }

// Chunks returns a copy of the chunks, ordered by ID.
func (c *Corpus) Chunks() []domain.Chunk { return append([]domain.Chunk(nil), c.chunks...) }

// Size returns the number of indexed chunks.
func (c *Corpus) Size() int { return c.index.Size() }

// Dimension returns the embedding dimension.
func (c *Corpus) Dimension() int { return c.index.Dimension() }

// Summary returns the extractive summary computed at ingestion, if any.
func (c *Corpus) Summary() string { return c.summary }

// Chunk resolves a chunk by ID.
func (c *Corpus) Chunk(id int) (domain.Chunk, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Chunk{}, false
	}
	return c.chunks[i], true
}

// Retrieve embeds query and returns the k closest chunks, closest first.
func (c *Corpus) Retrieve(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	vec, err := c.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrRetrieval, err)
	}
	hits, err := c.index.Search(ctx, vec, k)
	if err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(hits))
	for _, h := range hits {
		ch, ok := c.Chunk(h.ID)
		if !ok {
			return nil, fmt.Errorf("%w: index returned unknown chunk id %d", domain.ErrRetrieval, h.ID)
		}
		results = append(results, domain.SearchResult{Chunk: ch, Distance: h.Distance})
	}
	return results, nil
}
