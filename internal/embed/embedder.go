// Package embed provides text embedding backends for the optional
// dense scorer. The lexical baseline never touches this package.
package embed

import "context"

// Embedder converts text into dense vectors.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Dimensions reports the vector width this embedder produces.
	Dimensions() int
	// Close releases backend resources.
	Close() error
}
