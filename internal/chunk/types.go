// Package chunk splits corpus files into retrievable fragments.
//
// Chunking is a pure function of file path and content: the same corpus
// yields the same chunk sequence on every build. Boundaries come only
// from structural cues (markdown headers, code file boundaries, blank
// line paragraph breaks).
package chunk

import (
	"fmt"
	"unicode/utf8"
)

// Kind classifies a chunk by its origin. Metadata only, never used in
// ranking.
type Kind string

const (
	KindExample  Kind = "example"
	KindRecipe   Kind = "recipe"
	KindEndpoint Kind = "endpoint"
	KindRule     Kind = "rule"
	KindCode     Kind = "code"
	KindText     Kind = "text"
)

// Chunk is an atomic, independently retrievable fragment of the corpus.
type Chunk struct {
	// Ordinal is the chunk's position in the build sequence, starting
	// at zero. It doubles as the postings-list chunk reference.
	Ordinal int `json:"ordinal"`
	// ID is the stable identifier, unique within one build.
	ID string `json:"id"`
	// SourcePath is the slash-separated relative path of the
	// originating file.
	SourcePath string `json:"source_path"`
	// Kind classifies the chunk, inferred from path and extension.
	Kind Kind `json:"kind"`
	// Section is a human-readable label: a markdown heading, "Code",
	// or a paragraph ordinal like "Section 2".
	Section string `json:"section"`
	// Keywords is an ordered, deduplicated, bounded list of salient
	// tokens. Metadata and debugging only, not scoring.
	Keywords []string `json:"keywords"`
	// Text is the fragment content, truncated at MaxChunkChars.
	Text string `json:"text"`
}

// MakeID formats the stable chunk identifier for an ordinal.
func MakeID(ordinal int) string {
	return fmt.Sprintf("kb_%06d", ordinal)
}

// Options controls chunking behavior.
type Options struct {
	// MinSectionChars is the minimum length for a header-split segment
	// to survive as its own chunk.
	MinSectionChars int
	// MaxChunkChars truncates chunk text after chunking.
	MaxChunkChars int
	// MaxKeywords bounds the per-chunk keyword list.
	MaxKeywords int
}

// DefaultOptions returns the standard chunking parameters.
func DefaultOptions() Options {
	return Options{
		MinSectionChars: 200,
		MaxChunkChars:   4000,
		MaxKeywords:     20,
	}
}

// truncate cuts s at max bytes without splitting a rune.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
