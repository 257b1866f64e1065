package chromem

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"docqa/internal/domain"
	"docqa/internal/vectorstore/memory"
)

const collectionName = "chunks"

// Index stores vectors in an in-memory chromem-go collection. chromem ranks
// by cosine similarity over normalized vectors, so reported distances are the
// squared Euclidean distance between the normalized vectors (2 - 2cos).
type Index struct {
	dimension  int
	size       int
	collection *chromem.Collection
	// zero-norm vectors cannot be normalized and are kept out of the collection
	zeroIDs []int
}

// Build creates a chromem-backed index over vectors, where ids[i] identifies vectors[i].
func Build(ctx context.Context, ids []int, vectors [][]float32) (*Index, error) {
	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("%w: %d ids for %d vectors", domain.ErrInvalidArgument, len(ids), len(vectors))
	}
	db := chromem.NewDB()
	collection, err := db.CreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create chromem collection: %w", err)
	}
	idx := &Index{collection: collection, size: len(ids)}
	seen := make(map[int]struct{}, len(ids))
	docs := make([]chromem.Document, 0, len(ids))
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty vector for id %d", domain.ErrInvalidArgument, ids[i])
		}
		if idx.dimension == 0 {
			idx.dimension = len(v)
		} else if len(v) != idx.dimension {
			return nil, fmt.Errorf("%w: vector dimension mismatch: %d != %d", domain.ErrInvalidArgument, len(v), idx.dimension)
		}
		if _, ok := seen[ids[i]]; ok {
			return nil, fmt.Errorf("%w: duplicate id %d", domain.ErrInvalidArgument, ids[i])
		}
		seen[ids[i]] = struct{}{}
		if norm(v) == 0 {
			idx.zeroIDs = append(idx.zeroIDs, ids[i])
			continue
		}
		docs = append(docs, chromem.Document{
			ID:        strconv.Itoa(ids[i]),
			Embedding: append([]float32(nil), v...),
		})
	}
	if len(docs) > 0 {
		if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
			return nil, fmt.Errorf("add documents to chromem: %w", err)
		}
	}
	log.Debug().Int("vectors", idx.size).Int("dimension", idx.dimension).Int("zero", len(idx.zeroIDs)).Msg("chromem index built")
	return idx, nil
}

// Size returns the number of indexed vectors.
func (s *Index) Size() int { return s.size }

// Dimension returns the vector dimension, or zero for an empty index.
func (s *Index) Dimension() int { return s.dimension }

// Search returns the k nearest vectors to query, closest first.
func (s *Index) Search(ctx context.Context, query []float32, k int) ([]domain.Hit, error) {
	if err := memory.CheckQuery(s.size, s.dimension, query, k); err != nil {
		return nil, err
	}
	if k > s.size {
		k = s.size
	}
	if norm(query) == 0 {
		return s.zeroQueryHits(ctx, k)
	}
	hits := make([]domain.Hit, 0, s.size)
	if n := s.collection.Count(); n > 0 {
		results, err := s.collection.QueryEmbedding(ctx, query, n, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: chromem query: %w", domain.ErrRetrieval, err)
		}
		for _, r := range results {
			id, err := strconv.Atoi(r.ID)
			if err != nil {
				return nil, fmt.Errorf("%w: unexpected document id %q", domain.ErrRetrieval, r.ID)
			}
			d := 2 - 2*r.Similarity
			if d < 0 {
				d = 0
			}
			hits = append(hits, domain.Hit{ID: id, Distance: d})
		}
	}
	// a zero vector sits at distance 1 from any unit query
	for _, id := range s.zeroIDs {
		hits = append(hits, domain.Hit{ID: id, Distance: 1})
	}
	memory.SortHits(hits)
	return hits[:k], nil
}

// zeroQueryHits ranks stored vectors against a zero query: every normalized
// vector is at distance 1, every zero vector at distance 0.
func (s *Index) zeroQueryHits(ctx context.Context, k int) ([]domain.Hit, error) {
	hits := make([]domain.Hit, 0, s.size)
	for _, id := range s.zeroIDs {
		hits = append(hits, domain.Hit{ID: id, Distance: 0})
	}
	if n := s.collection.Count(); n > 0 {
		probe := make([]float32, s.dimension)
		probe[0] = 1
		results, err := s.collection.QueryEmbedding(ctx, probe, n, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: chromem query: %w", domain.ErrRetrieval, err)
		}
		for _, r := range results {
			id, err := strconv.Atoi(r.ID)
			if err != nil {
				return nil, fmt.Errorf("%w: unexpected document id %q", domain.ErrRetrieval, r.ID)
			}
			hits = append(hits, domain.Hit{ID: id, Distance: 1})
		}
	}
	memory.SortHits(hits)
	return hits[:k], nil
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
