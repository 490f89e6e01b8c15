package search

import (
	"context"
	"math"
	"sort"

	"github.com/coder/hnsw"

	"github.com/promptops/kbindex/internal/embed"
	kberrors "github.com/promptops/kbindex/internal/errors"
	"github.com/promptops/kbindex/internal/index"
)

// DenseScorer ranks chunks by cosine similarity between embedding
// vectors, using an HNSW graph keyed by chunk ordinal. An alternate
// backend behind the same Scorer interface as the lexical baseline.
type DenseScorer struct {
	snap     *index.Snapshot
	embedder embed.Embedder
	graph    *hnsw.Graph[int]
}

var _ Scorer = (*DenseScorer)(nil)

// NewDenseScorer embeds every chunk in snap and indexes the vectors.
// Embedding failures abort construction; there is no silent fallback
// to lexical ranking.
func NewDenseScorer(ctx context.Context, snap *index.Snapshot, embedder embed.Embedder) (*DenseScorer, error) {
	graph := hnsw.NewGraph[int]()
	graph.Distance = hnsw.CosineDistance

	if !snap.IsEmpty() {
		texts := make([]string, len(snap.Chunks))
		for i, c := range snap.Chunks {
			texts[i] = c.Text
		}
		vecs, err := embedder.Embed(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(vecs) != len(texts) {
			return nil, kberrors.EmbedError("embedding count mismatch", nil)
		}
		for i, vec := range vecs {
			normalize(vec)
			graph.Add(hnsw.MakeNode(i, vec))
		}
	}

	return &DenseScorer{snap: snap, embedder: embedder, graph: graph}, nil
}

// Rank embeds the query and returns its nearest chunks.
func (s *DenseScorer) Rank(ctx context.Context, query string, topK int) ([]Hit, error) {
	if s.snap.IsEmpty() || s.graph.Len() == 0 {
		return nil, nil
	}

	vecs, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, kberrors.EmbedError("no query embedding", nil)
	}
	qvec := vecs[0]
	normalize(qvec)

	nodes := s.graph.Search(qvec, topK)

	hits := make([]Hit, 0, len(nodes))
	for _, node := range nodes {
		// Cosine distance ranges 0..2; map to similarity in [0, 1].
		score := 1 - float64(s.graph.Distance(qvec, node.Value))/2
		if score <= 0 {
			continue
		}
		hits = append(hits, Hit{Chunk: s.snap.Chunks[node.Key], Score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Chunk.Ordinal < hits[j].Chunk.Ordinal
	})
	return hits, nil
}

func normalize(v []float32) {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sumSq))
	for i := range v {
		v[i] *= inv
	}
}
