package index

import (
	"github.com/promptops/kbindex/internal/chunk"
)

// Posting records one chunk's weight for a term.
type Posting struct {
	// Ordinal references the chunk by build position.
	Ordinal int `json:"ordinal"`
	// Weight is (1 + ln(tf)) * idf for the term in that chunk.
	Weight float64 `json:"weight"`
}

// Stats summarizes a build.
type Stats struct {
	Files  int `json:"files"`
	Chunks int `json:"chunks"`
	Terms  int `json:"terms"`
}

// Snapshot is an immutable, caller-owned index artifact. A build
// produces a complete snapshot; queries only read it. Multiple
// snapshots can coexist, e.g. during a staged rebuild.
type Snapshot struct {
	// IDF maps each corpus term to ln((N+1)/(df+1)) + 1.
	IDF map[string]float64 `json:"idf"`
	// Postings maps each term to the chunks containing it, ordered by
	// ascending ordinal.
	Postings map[string][]Posting `json:"postings"`
	// Norms holds the L2 norm of each chunk's weight vector, indexed
	// by ordinal. A chunk with no terms records 1.0 so division is
	// always safe.
	Norms []float64 `json:"norms"`
	// Chunks holds full chunk records, indexed by ordinal.
	Chunks []chunk.Chunk `json:"chunks"`
	Stats  Stats         `json:"stats"`
}

// NewEmptySnapshot returns a snapshot representing an unbuilt or empty
// corpus. Queries against it return no results.
func NewEmptySnapshot() *Snapshot {
	return &Snapshot{
		IDF:      map[string]float64{},
		Postings: map[string][]Posting{},
	}
}

// IsEmpty reports whether the snapshot contains no chunks.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || len(s.Chunks) == 0
}

// IDFOf returns the idf weight for term, or 0 for terms absent from
// the corpus vocabulary.
func (s *Snapshot) IDFOf(term string) float64 {
	return s.IDF[term]
}

// KindCounts tallies chunks by kind.
func (s *Snapshot) KindCounts() map[chunk.Kind]int {
	counts := make(map[chunk.Kind]int)
	for _, c := range s.Chunks {
		counts[c.Kind]++
	}
	return counts
}

// NormOf returns the stored L2 norm for a chunk ordinal, defaulting to
// 1.0 out of range.
func (s *Snapshot) NormOf(ordinal int) float64 {
	if ordinal < 0 || ordinal >= len(s.Norms) {
		return 1.0
	}
	return s.Norms[ordinal]
}
