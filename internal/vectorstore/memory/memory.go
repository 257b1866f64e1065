package memory

import (
	"context"
	"fmt"
	"sort"

	"docqa/internal/domain"
)

// Index is a flat in-memory vector index using brute-force squared Euclidean
// distance. It is immutable once built.
type Index struct {
	dimension int
	ids       []int
	vectors   [][]float32
}

// Build creates an index over vectors, where ids[i] identifies vectors[i].
func Build(ids []int, vectors [][]float32) (*Index, error) {
	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("%w: %d ids for %d vectors", domain.ErrInvalidArgument, len(ids), len(vectors))
	}
	idx := &Index{
		ids:     make([]int, len(ids)),
		vectors: make([][]float32, len(vectors)),
	}
	seen := make(map[int]struct{}, len(ids))
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
		idx.ids[i] = ids[i]
		idx.vectors[i] = append([]float32(nil), v...)
	}
	return idx, nil
}

// Size returns the number of indexed vectors.
func (s *Index) Size() int { return len(s.vectors) }

// Dimension returns the vector dimension, or zero for an empty index.
func (s *Index) Dimension() int { return s.dimension }

// Search returns the k nearest vectors to query, closest first.
func (s *Index) Search(ctx context.Context, query []float32, k int) ([]domain.Hit, error) {
	if err := CheckQuery(s.Size(), s.dimension, query, k); err != nil {
		return nil, err
	}
	if k > s.Size() {
		k = s.Size()
	}
	hits := make([]domain.Hit, len(s.vectors))
	for i, v := range s.vectors {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
			}
		}
		hits[i] = domain.Hit{ID: s.ids[i], Distance: SquaredL2(v, query)}
	}
	SortHits(hits)
	return hits[:k], nil
}

// CheckQuery validates a search request against an index of the given size and
// dimension.
func CheckQuery(size, dimension int, query []float32, k int) error {
	if k <= 0 {
		return fmt.Errorf("%w: %w: k must be positive, got %d", domain.ErrRetrieval, domain.ErrInvalidArgument, k)
	}
	if size == 0 {
		return fmt.Errorf("%w: %w", domain.ErrRetrieval, domain.ErrEmptyIndex)
	}
	if len(query) != dimension {
		return fmt.Errorf("%w: %w: query dimension %d, index dimension %d", domain.ErrRetrieval, domain.ErrInvalidArgument, len(query), dimension)
	}
	return nil
}

// SortHits orders hits by ascending distance, then ascending ID.
func SortHits(hits []domain.Hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ID < hits[j].ID
	})
}

// SquaredL2 returns the squared Euclidean distance between equal-length vectors.
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
