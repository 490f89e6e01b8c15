package cache

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptops/kbindex/internal/chunk"
	"github.com/promptops/kbindex/internal/search"
)

// countingSearcher tracks resolutions to prove cache idempotence.
type countingSearcher struct {
	calls atomic.Int64
	hits  []search.Hit
}

func (s *countingSearcher) Search(_ context.Context, _ string, _ int) ([]search.Hit, error) {
	s.calls.Add(1)
	return s.hits, nil
}

func sampleHits() []search.Hit {
	return []search.Hit{
		{Chunk: chunk.Chunk{ID: "kb_000000", SourcePath: "docs/a.md", Section: "Setup",
			Kind: chunk.KindRule, Keywords: []string{"install"}, Text: "install it"}, Score: 0.91},
		{Chunk: chunk.Chunk{Ordinal: 1, ID: "kb_000001", SourcePath: "docs/b.md", Section: "Usage",
			Kind: chunk.KindRule, Keywords: []string{"run"}, Text: "run it"}, Score: 0.42},
	}
}

func TestSearchResolvesOncePerPair(t *testing.T) {
	s := &countingSearcher{hits: sampleHits()}
	c, err := New(s, t.TempDir())
	require.NoError(t, err)

	first, err := c.Search(context.Background(), "how to install", 6)
	require.NoError(t, err)
	second, err := c.Search(context.Background(), "how to install", 6)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), s.calls.Load())

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestSearchDistinctBoundsAreDistinctEntries(t *testing.T) {
	s := &countingSearcher{hits: sampleHits()}
	c, err := New(s, t.TempDir())
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "query", 3)
	require.NoError(t, err)
	_, err = c.Search(context.Background(), "query", 6)
	require.NoError(t, err)

	assert.Equal(t, int64(2), s.calls.Load())
}

func TestSearchSurvivesProcessRestart(t *testing.T) {
	dir := t.TempDir()

	s := &countingSearcher{hits: sampleHits()}
	c, err := New(s, dir)
	require.NoError(t, err)
	want, err := c.Search(context.Background(), "persisted query", 2)
	require.NoError(t, err)

	// A fresh cache over the same dir serves from disk.
	reopened, err := New(s, dir)
	require.NoError(t, err)
	got, err := reopened.Search(context.Background(), "persisted query", 2)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, int64(1), s.calls.Load())
}

func TestSearchCachesEmptyResults(t *testing.T) {
	s := &countingSearcher{hits: nil}
	c, err := New(s, t.TempDir())
	require.NoError(t, err)

	first, err := c.Search(context.Background(), "no matches", 6)
	require.NoError(t, err)
	assert.Empty(t, first)

	_, err = c.Search(context.Background(), "no matches", 6)
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.calls.Load())
}

func TestCorruptEntryIsDroppedAndRecomputed(t *testing.T) {
	dir := t.TempDir()
	s := &countingSearcher{hits: sampleHits()}
	c, err := New(s, dir)
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "query", 6)
	require.NoError(t, err)

	path := filepath.Join(dir, "rag_"+Key("query", 6)+".json")
	require.NoError(t, os.WriteFile(path, []byte("{garbage"), 0o644))

	reopened, err := New(s, dir)
	require.NoError(t, err)
	hits, err := reopened.Search(context.Background(), "query", 6)
	require.NoError(t, err)

	assert.Equal(t, sampleHits(), hits)
	assert.Equal(t, int64(2), s.calls.Load())
}

func TestClearRemovesEntries(t *testing.T) {
	dir := t.TempDir()
	s := &countingSearcher{hits: sampleHits()}
	c, err := New(s, dir)
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "query", 6)
	require.NoError(t, err)
	require.NoError(t, c.Clear())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = c.Search(context.Background(), "query", 6)
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.calls.Load())
}

func TestKeyIsFullHash(t *testing.T) {
	key := Key("prompt", 6)
	// 64 hex chars plus the bound suffix.
	assert.Len(t, key, 64+len("_k6"))
	assert.NotEqual(t, Key("prompt", 6), Key("prompt", 7))
	assert.NotEqual(t, Key("prompt", 6), Key("other prompt", 6))
}

func TestConcurrentSearchesAreConsistent(t *testing.T) {
	s := &countingSearcher{hits: sampleHits()}
	c, err := New(s, t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]search.Hit, 8)
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			hits, err := c.Search(context.Background(), "same query", 6)
			assert.NoError(t, err)
			results[i] = hits
		}()
	}
	wg.Wait()

	for _, hits := range results {
		assert.Equal(t, results[0], hits)
	}
}
