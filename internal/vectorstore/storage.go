package vectorstore

import (
	"context"
	"fmt"

	"docqa/internal/config"
	"docqa/internal/domain"
	"docqa/internal/vectorstore/chromem"
	"docqa/internal/vectorstore/memory"
)

// Build constructs the vector index selected by cfg.Type over (ids, vectors).
func Build(ctx context.Context, cfg config.IndexConfig, ids []int, vectors [][]float32) (domain.VectorIndex, error) {
	switch cfg.Type {
	case "memory", "flat", "":
		return memory.Build(ids, vectors)
	case "chromem":
		return chromem.Build(ctx, ids, vectors)
	default:
		return nil, fmt.Errorf("unknown vector index: %s", cfg.Type)
	}
}
