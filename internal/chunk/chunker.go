package chunk

import (
	"context"
	"log/slog"
)

// Chunker turns corpus files into chunk sequences using the strategy
// matching each file's type.
type Chunker struct {
	opts   Options
	logger *slog.Logger
}

// NewChunker creates a Chunker. A nil logger uses slog.Default.
func NewChunker(opts Options, logger *slog.Logger) *Chunker {
	if opts.MaxChunkChars <= 0 {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Chunker{opts: opts, logger: logger}
}

// ChunkFile splits one file into chunks. SourcePath, Kind, and
// Keywords are populated; Ordinal and ID are left for the index
// builder, which assigns them across the whole corpus.
func (c *Chunker) ChunkFile(ctx context.Context, relPath, text string) []Chunk {
	var chunks []Chunk
	switch {
	case IsMarkdown(relPath):
		chunks = ChunkMarkdown(text, c.opts)
	case IsCode(relPath):
		chunks = ChunkCode(ctx, relPath, text, c.opts)
	default:
		chunks = ChunkPlainText(text, c.opts)
	}

	kind := ClassifyKind(relPath)
	for i := range chunks {
		chunks[i].SourcePath = relPath
		chunks[i].Kind = kind
		if chunks[i].Keywords == nil {
			chunks[i].Keywords = ExtractKeywords(chunks[i].Text, c.opts.MaxKeywords)
		}
	}

	c.logger.Debug("chunked file", "path", relPath, "chunks", len(chunks))
	return chunks
}
