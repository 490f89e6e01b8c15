// Package search resolves queries against an index snapshot.
package search

import (
	"context"

	"github.com/promptops/kbindex/internal/chunk"
)

// Hit is one ranked result.
type Hit struct {
	// Chunk is the full retrieved fragment, copied by value so cached
	// results round-trip verbatim.
	Chunk chunk.Chunk `json:"chunk"`
	// Score is the similarity in [0, 1]; always strictly positive in
	// returned results.
	Score float64 `json:"score"`
}

// Scorer ranks chunks for a query. The engine is written once against
// this interface; lexical TF-IDF and embedding backends plug in by
// composition.
type Scorer interface {
	// Rank returns up to topK hits in descending score order, ties
	// broken by ascending chunk ordinal. Zero-score chunks are never
	// returned.
	Rank(ctx context.Context, query string, topK int) ([]Hit, error)
}
