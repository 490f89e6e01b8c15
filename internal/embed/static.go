package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// DefaultStaticDimensions is the vector width of the static embedder.
const DefaultStaticDimensions = 256

// StaticEmbedder produces deterministic embeddings by hashing tokens
// into a fixed-width bag-of-words vector. No network, no model files;
// useful for tests and for air-gapped dense search where ranking only
// needs lexical-overlap geometry.
type StaticEmbedder struct {
	dims int
}

var _ Embedder = (*StaticEmbedder)(nil)

// NewStaticEmbedder creates a StaticEmbedder. A dims of zero or less
// means DefaultStaticDimensions.
func NewStaticEmbedder(dims int) *StaticEmbedder {
	if dims <= 0 {
		dims = DefaultStaticDimensions
	}
	return &StaticEmbedder{dims: dims}
}

// Embed hashes each text's tokens into a normalized vector.
func (e *StaticEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.vectorize(text)
	}
	return out, nil
}

func (e *StaticEmbedder) vectorize(text string) []float32 {
	vec := make([]float32, e.dims)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(tok))
		sum := h.Sum32()
		// Low bits pick the slot, one high bit picks the sign, so
		// different tokens cancel rather than pile up.
		slot := int(sum % uint32(e.dims))
		if sum&0x80000000 != 0 {
			vec[slot] -= 1
		} else {
			vec[slot] += 1
		}
	}

	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	if sumSq > 0 {
		inv := float32(1 / math.Sqrt(sumSq))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec
}

// Dimensions reports the embedding width.
func (e *StaticEmbedder) Dimensions() int {
	return e.dims
}

// Close is a no-op.
func (e *StaticEmbedder) Close() error {
	return nil
}
