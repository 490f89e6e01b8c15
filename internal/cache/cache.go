// Package cache makes repeated queries idempotent and cheap.
//
// Results persist one file per distinct (query, bound) pair, fronted
// by an in-memory LRU. Entries are content-addressed by the full
// SHA-256 of the query, so distinct queries never collide. Any entry
// can be deleted without affecting the index or other entries.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/google/renameio"
	lru "github.com/hashicorp/golang-lru/v2"

	kberrors "github.com/promptops/kbindex/internal/errors"
	"github.com/promptops/kbindex/internal/search"
)

// DefaultMemoryEntries sizes the in-memory LRU front.
const DefaultMemoryEntries = 256

// Searcher resolves queries on a cache miss.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]search.Hit, error)
}

// Cache wraps a Searcher with persisted, idempotent results. The
// underlying searcher runs at most once per distinct (query, topK)
// pair for the life of the cache directory.
type Cache struct {
	searcher Searcher
	dir      string
	mem      *lru.Cache[string, []search.Hit]
	logger   *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithMemoryEntries sizes the LRU front.
func WithMemoryEntries(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.mem, _ = lru.New[string, []search.Hit](n)
		}
	}
}

// WithLogger sets the cache logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// New creates a Cache persisting into dir.
func New(searcher Searcher, dir string, opts ...Option) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, kberrors.New(kberrors.ErrCodeCacheWrite,
			fmt.Sprintf("cannot create cache dir %s", dir), err)
	}

	mem, err := lru.New[string, []search.Hit](DefaultMemoryEntries)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		searcher: searcher,
		dir:      dir,
		mem:      mem,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Key derives the cache key for a (query, topK) pair: the full hex
// SHA-256 of the query plus the bound. Never truncated.
func Key(query string, topK int) string {
	sum := sha256.Sum256([]byte(query))
	return fmt.Sprintf("%s_k%d", hex.EncodeToString(sum[:]), topK)
}

// Search returns cached results when available, otherwise resolves the
// query and persists the outcome. Identical (query, topK) pairs always
// return identical results.
func (c *Cache) Search(ctx context.Context, query string, topK int) ([]search.Hit, error) {
	key := Key(query, topK)

	if hits, ok := c.mem.Get(key); ok {
		c.hits.Add(1)
		return hits, nil
	}

	if hits, ok := c.readEntry(key); ok {
		c.hits.Add(1)
		c.mem.Add(key, hits)
		return hits, nil
	}

	c.misses.Add(1)
	hits, err := c.searcher.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	if err := c.writeEntry(key, hits); err != nil {
		return nil, err
	}
	c.mem.Add(key, hits)
	return hits, nil
}

// readEntry loads a persisted entry. A corrupt entry is removed and
// treated as a miss; the next resolution rewrites it.
func (c *Cache) readEntry(key string) ([]search.Hit, bool) {
	path := c.entryPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	// json.Unmarshal leaves hits nil for an empty cached result, which
	// still counts as a valid entry.
	hits := []search.Hit{}
	if err := json.Unmarshal(data, &hits); err != nil {
		c.logger.Warn("dropping corrupt cache entry", "path", path, "error", err)
		_ = os.Remove(path)
		return nil, false
	}
	return hits, true
}

// writeEntry persists hits atomically. Write failures surface to the
// caller; silent cache loss would break idempotence.
func (c *Cache) writeEntry(key string, hits []search.Hit) error {
	if hits == nil {
		hits = []search.Hit{}
	}
	data, err := json.Marshal(hits)
	if err != nil {
		return kberrors.New(kberrors.ErrCodeCacheWrite, "cannot encode cache entry", err)
	}
	path := c.entryPath(key)
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return kberrors.New(kberrors.ErrCodeCacheWrite,
			fmt.Sprintf("cannot write cache entry %s", path), err)
	}
	return nil
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, "rag_"+key+".json")
}

// Clear drops every cached entry, memory and disk. Callers run it
// after a rebuild so stale results never outlive their snapshot.
func (c *Cache) Clear() error {
	c.mem.Purge()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return kberrors.New(kberrors.ErrCodeCacheWrite,
			fmt.Sprintf("cannot list cache dir %s", c.dir), err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "rag_") {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return kberrors.New(kberrors.ErrCodeCacheWrite,
				fmt.Sprintf("cannot remove cache entry %s", e.Name()), err)
		}
	}
	return nil
}

// Stats reports hit and miss counts since construction.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
