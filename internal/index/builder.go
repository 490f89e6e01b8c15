package index

import (
	"context"
	"log/slog"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/promptops/kbindex/internal/chunk"
	"github.com/promptops/kbindex/internal/corpus"
	kberrors "github.com/promptops/kbindex/internal/errors"
)

// Builder runs the full, atomic batch pass that turns a corpus
// directory into a Snapshot. There is no incremental path: every build
// rescans and reweights everything.
type Builder struct {
	scanner   *corpus.Scanner
	chunker   *chunk.Chunker
	tokenizer *Tokenizer
	scanOpts  corpus.ScanOptions
	workers   int
	logger    *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithScanOptions sets corpus discovery parameters.
func WithScanOptions(opts corpus.ScanOptions) BuilderOption {
	return func(b *Builder) { b.scanOpts = opts }
}

// WithChunkOptions sets chunking parameters.
func WithChunkOptions(opts chunk.Options) BuilderOption {
	return func(b *Builder) { b.chunker = chunk.NewChunker(opts, b.logger) }
}

// WithTokenizer sets the tokenizer shared with the query path.
func WithTokenizer(t *Tokenizer) BuilderOption {
	return func(b *Builder) { b.tokenizer = t }
}

// WithWorkers bounds chunking parallelism.
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) { b.workers = n }
}

// WithLogger sets the build logger.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) { b.logger = logger }
}

// NewBuilder creates a Builder with defaults, then applies options.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		logger:  slog.Default(),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.scanner == nil {
		b.scanner = corpus.NewScanner(b.logger)
	}
	if b.chunker == nil {
		b.chunker = chunk.NewChunker(chunk.DefaultOptions(), b.logger)
	}
	if b.tokenizer == nil {
		b.tokenizer = MustTokenizer(DefaultMinTokenLength, DefaultMaxTokens)
	}
	return b
}

// Build scans root, chunks every eligible file, and computes the full
// TF-IDF snapshot. Unreadable files are logged and skipped; an empty
// or fully skipped corpus yields an empty snapshot, not an error.
func (b *Builder) Build(ctx context.Context, root string) (*Snapshot, error) {
	files, err := b.scanner.Scan(ctx, root, b.scanOpts)
	if err != nil {
		return nil, err
	}

	// Files chunk in parallel, but results land in per-file slots so
	// the final sequence follows scan order and ordinals stay stable
	// across builds.
	perFile := make([][]chunk.Chunk, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			text, err := corpus.ReadText(f)
			if err != nil {
				b.logger.Warn("skipping file",
					"path", f.RelPath,
					"code", kberrors.GetCode(err),
					"error", err)
				return nil
			}
			perFile[i] = b.chunker.ChunkFile(gctx, f.RelPath, text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var chunks []chunk.Chunk
	for _, fc := range perFile {
		chunks = append(chunks, fc...)
	}
	for i := range chunks {
		chunks[i].Ordinal = i
		chunks[i].ID = chunk.MakeID(i)
	}

	snap := b.weigh(chunks)
	snap.Stats.Files = len(files)

	b.logger.Info("index build complete",
		"files", snap.Stats.Files,
		"chunks", snap.Stats.Chunks,
		"terms", snap.Stats.Terms)
	return snap, nil
}

// weigh computes document frequencies, idf, postings, and norms from a
// finalized chunk sequence.
func (b *Builder) weigh(chunks []chunk.Chunk) *Snapshot {
	snap := NewEmptySnapshot()
	snap.Chunks = chunks
	snap.Norms = make([]float64, len(chunks))
	snap.Stats.Chunks = len(chunks)

	counts := make([]map[string]int, len(chunks))
	df := make(map[string]int)
	for i, c := range chunks {
		counts[i] = b.tokenizer.TermCounts(c.Text)
		for term := range counts[i] {
			df[term]++
		}
	}

	n := float64(len(chunks))
	for term, freq := range df {
		snap.IDF[term] = math.Log((n+1)/float64(freq+1)) + 1
	}
	snap.Stats.Terms = len(snap.IDF)

	for i := range chunks {
		var sumSq float64
		for term, tf := range counts[i] {
			w := (1 + math.Log(float64(tf))) * snap.IDF[term]
			snap.Postings[term] = append(snap.Postings[term], Posting{Ordinal: i, Weight: w})
			sumSq += w * w
		}
		norm := math.Sqrt(sumSq)
		if norm == 0 {
			norm = 1.0
		}
		snap.Norms[i] = norm
	}
	return snap
}
