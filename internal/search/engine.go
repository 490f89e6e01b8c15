package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	kberrors "github.com/promptops/kbindex/internal/errors"
)

// DefaultTopK is the result bound when a caller passes zero.
const DefaultTopK = 6

// Engine resolves queries through a Scorer and assembles prompt
// context from the hits. Safe for concurrent use when the underlying
// scorer is.
type Engine struct {
	scorer      Scorer
	defaultTopK int
	logger      *slog.Logger
	searches    atomic.Int64
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithDefaultTopK sets the result bound for zero-topK searches.
func WithDefaultTopK(k int) EngineOption {
	return func(e *Engine) { e.defaultTopK = k }
}

// WithEngineLogger sets the query logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates an Engine over scorer.
func NewEngine(scorer Scorer, opts ...EngineOption) *Engine {
	e := &Engine{
		scorer:      scorer,
		defaultTopK: DefaultTopK,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search ranks chunks for query. A topK of zero means the engine
// default; a negative topK is rejected. A query with no usable terms
// returns no hits, not an error, so callers degrade gracefully.
func (e *Engine) Search(ctx context.Context, query string, topK int) ([]Hit, error) {
	if topK < 0 {
		return nil, kberrors.New(kberrors.ErrCodeInvalidQuery,
			fmt.Sprintf("result bound must not be negative, got %d", topK), nil)
	}
	if topK == 0 {
		topK = e.defaultTopK
	}

	start := time.Now()
	e.searches.Add(1)

	hits, err := e.scorer.Rank(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("query resolved",
		"top_k", topK,
		"hits", len(hits),
		"duration", time.Since(start))
	return hits, nil
}

// Searches reports how many queries this engine has resolved.
func (e *Engine) Searches() int64 {
	return e.searches.Load()
}

// BuildContext renders hits into a prompt context string, one labeled
// block per hit, stopping before maxChars is exceeded. A hit that
// would overflow the budget ends assembly; later, smaller hits are not
// considered, keeping the output a rank-order prefix.
func BuildContext(hits []Hit, maxChars int) string {
	var parts []string
	total := 0
	for _, h := range hits {
		block := fmt.Sprintf("[%s - %s]\n%s\n", h.Chunk.SourcePath, h.Chunk.Section, h.Chunk.Text)
		if maxChars > 0 && total+len(block) > maxChars {
			break
		}
		parts = append(parts, block)
		total += len(block)
	}
	return strings.Join(parts, "\n")
}
