package search

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptops/kbindex/internal/corpus"
	"github.com/promptops/kbindex/internal/index"
)

func buildSnapshot(t *testing.T, files map[string]string) *index.Snapshot {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	b := index.NewBuilder(index.WithScanOptions(corpus.ScanOptions{Extensions: []string{".txt", ".md"}}))
	snap, err := b.Build(context.Background(), root)
	require.NoError(t, err)
	return snap
}

func newLexical(t *testing.T, files map[string]string) *LexicalScorer {
	t.Helper()
	snap := buildSnapshot(t, files)
	return NewLexicalScorer(snap, index.MustTokenizer(3, 0))
}

// Three chunks, query "alpha gamma". Weights are computed by hand from
// idf(t) = ln((N+1)/(df+1)) + 1 and w = (1 + ln(tf)) * idf.
func TestRankCosineValues(t *testing.T) {
	s := newLexical(t, map[string]string{
		"a.txt": "alpha beta alpha",
		"b.txt": "beta gamma",
		"c.txt": "gamma delta delta delta",
	})

	hits, err := s.Rank(context.Background(), "alpha gamma", 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	idfRare := math.Log(4.0/2.0) + 1   // df=1
	idfShared := math.Log(4.0/3.0) + 1 // df=2

	qNorm := math.Sqrt(idfRare*idfRare + idfShared*idfShared)

	wAlphaA := (1 + math.Log(2)) * idfRare
	normA := math.Sqrt(wAlphaA*wAlphaA + idfShared*idfShared)
	scoreA := (idfRare * wAlphaA) / (qNorm * normA)

	normB := math.Sqrt(2 * idfShared * idfShared)
	scoreB := (idfShared * idfShared) / (qNorm * normB)

	wDeltaC := (1 + math.Log(3)) * idfRare
	normC := math.Sqrt(idfShared*idfShared + wDeltaC*wDeltaC)
	scoreC := (idfShared * idfShared) / (qNorm * normC)

	assert.Equal(t, "a.txt", hits[0].Chunk.SourcePath)
	assert.Equal(t, "b.txt", hits[1].Chunk.SourcePath)
	assert.Equal(t, "c.txt", hits[2].Chunk.SourcePath)

	assert.InDelta(t, scoreA, hits[0].Score, 1e-12)
	assert.InDelta(t, scoreB, hits[1].Score, 1e-12)
	assert.InDelta(t, scoreC, hits[2].Score, 1e-12)

	// Sanity anchors for the hand computation.
	assert.InDelta(t, 0.7261, hits[0].Score, 5e-4)
	assert.InDelta(t, 0.4281, hits[1].Score, 5e-4)
	assert.InDelta(t, 0.2063, hits[2].Score, 5e-4)
}

func TestRankExcludesZeroOverlap(t *testing.T) {
	s := newLexical(t, map[string]string{
		"a.txt": "alpha beta",
		"b.txt": "unrelated content entirely",
	})

	hits, err := s.Rank(context.Background(), "alpha", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a.txt", hits[0].Chunk.SourcePath)
}

func TestRankTieBreaksByOrdinal(t *testing.T) {
	// Identical chunks score identically; ascending ordinal decides.
	s := newLexical(t, map[string]string{
		"a.txt": "alpha beta",
		"b.txt": "alpha beta",
	})

	hits, err := s.Rank(context.Background(), "alpha", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.InDelta(t, hits[0].Score, hits[1].Score, 1e-12)
	assert.Equal(t, 0, hits[0].Chunk.Ordinal)
	assert.Equal(t, 1, hits[1].Chunk.Ordinal)
}

func TestRankOutOfVocabularyQuery(t *testing.T) {
	s := newLexical(t, map[string]string{"a.txt": "alpha beta"})

	hits, err := s.Rank(context.Background(), "zzz_unknown_term", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestRankEmptyQuery(t *testing.T) {
	s := newLexical(t, map[string]string{"a.txt": "alpha beta"})

	hits, err := s.Rank(context.Background(), "   !! a", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestRankEmptySnapshot(t *testing.T) {
	s := NewLexicalScorer(index.NewEmptySnapshot(), index.MustTokenizer(3, 0))

	hits, err := s.Rank(context.Background(), "alpha", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestRankHonorsTopK(t *testing.T) {
	s := newLexical(t, map[string]string{
		"a.txt": "alpha one",
		"b.txt": "alpha two",
		"c.txt": "alpha three",
	})

	hits, err := s.Rank(context.Background(), "alpha", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestRankDuplicateQueryTerms(t *testing.T) {
	// tf=2 in the query weighs 1+ln(2), not 2.
	s := newLexical(t, map[string]string{
		"a.txt": "alpha beta",
		"b.txt": "gamma beta",
	})

	once, err := s.Rank(context.Background(), "alpha", 10)
	require.NoError(t, err)
	twice, err := s.Rank(context.Background(), "alpha alpha", 10)
	require.NoError(t, err)

	require.Len(t, once, 1)
	require.Len(t, twice, 1)
	// Single-term query: scaling query weight cancels in cosine.
	assert.InDelta(t, once[0].Score, twice[0].Score, 1e-12)
}
