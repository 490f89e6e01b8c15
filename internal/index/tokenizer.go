// Package index builds, persists, and loads the TF-IDF snapshot.
package index

import (
	"fmt"
	"regexp"
	"strings"
)

// Tokenizer defaults. The same floor and cap apply to the build and
// query paths; scores are only comparable when both sides tokenize
// identically.
const (
	DefaultMinTokenLength = 3
	DefaultMaxTokens      = 2000
)

// Tokenizer extracts normalized terms from text. Deterministic and
// locale-independent: input is lowercased, then alphabetic-led runs of
// letters, digits, and underscores at least minLength long are taken
// in order, up to maxTokens per call.
type Tokenizer struct {
	pattern   *regexp.Regexp
	maxTokens int
}

// NewTokenizer creates a Tokenizer. minLength must be at least 3; a
// maxTokens of zero or less means DefaultMaxTokens.
func NewTokenizer(minLength, maxTokens int) (*Tokenizer, error) {
	if minLength < 3 {
		return nil, fmt.Errorf("tokenizer min length must be >= 3, got %d", minLength)
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Tokenizer{
		pattern:   regexp.MustCompile(fmt.Sprintf(`[a-z][a-z0-9_]{%d,}`, minLength-1)),
		maxTokens: maxTokens,
	}, nil
}

// MustTokenizer is NewTokenizer for known-good parameters.
func MustTokenizer(minLength, maxTokens int) *Tokenizer {
	t, err := NewTokenizer(minLength, maxTokens)
	if err != nil {
		panic(err)
	}
	return t
}

// Tokenize returns the ordered term sequence for text, duplicates
// included.
func (t *Tokenizer) Tokenize(text string) []string {
	return t.pattern.FindAllString(strings.ToLower(text), t.maxTokens)
}

// TermCounts returns term frequencies for text.
func (t *Tokenizer) TermCounts(text string) map[string]int {
	tokens := t.Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	return counts
}
