package search

import (
	"context"
	"math"
	"sort"

	"github.com/promptops/kbindex/internal/index"
)

// LexicalScorer ranks chunks by weighted cosine similarity between the
// query's TF-IDF vector and each chunk's stored vector. Entirely
// self-contained: no network, no model files.
type LexicalScorer struct {
	snap *index.Snapshot
	tok  *index.Tokenizer
}

var _ Scorer = (*LexicalScorer)(nil)

// NewLexicalScorer creates a scorer over snap. The tokenizer must be
// the one the snapshot was built with; mismatched tokenization makes
// scores incomparable.
func NewLexicalScorer(snap *index.Snapshot, tok *index.Tokenizer) *LexicalScorer {
	return &LexicalScorer{snap: snap, tok: tok}
}

// Rank scores every chunk sharing at least one term with the query.
// Query terms absent from the corpus vocabulary contribute nothing.
func (s *LexicalScorer) Rank(ctx context.Context, query string, topK int) ([]Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.snap.IsEmpty() {
		return nil, nil
	}

	weights := s.queryWeights(query)
	if len(weights) == 0 {
		return nil, nil
	}

	var qSumSq float64
	for _, w := range weights {
		qSumSq += w * w
	}
	qNorm := math.Sqrt(qSumSq)

	// Dot products accumulate through the postings lists; chunks with
	// no query-term overlap are never visited.
	dots := make(map[int]float64)
	for term, qw := range weights {
		for _, p := range s.snap.Postings[term] {
			dots[p.Ordinal] += qw * p.Weight
		}
	}

	hits := make([]Hit, 0, len(dots))
	for ordinal, dot := range dots {
		score := dot / (qNorm * s.snap.NormOf(ordinal))
		if score <= 0 {
			continue
		}
		hits = append(hits, Hit{Chunk: s.snap.Chunks[ordinal], Score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Chunk.Ordinal < hits[j].Chunk.Ordinal
	})

	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// queryWeights builds the sparse query vector: (1 + ln(tf)) * idf per
// term, restricted to the corpus vocabulary.
func (s *LexicalScorer) queryWeights(query string) map[string]float64 {
	counts := s.tok.TermCounts(query)
	if len(counts) == 0 {
		return nil
	}
	weights := make(map[string]float64, len(counts))
	for term, tf := range counts {
		idf := s.snap.IDFOf(term)
		if idf == 0 {
			continue
		}
		weights[term] = (1 + math.Log(float64(tf))) * idf
	}
	return weights
}
