// Package embeddings
package embeddings

import "context"

// Embedder provides text embedding capabilities.
type Embedder interface {
	// Embed converts text into a vector embedding. Failures (timeouts,
	// non-2xx responses) are returned as errors, never as zero vectors:
	// callers must be able to tell "no context available" apart from an
	// irrelevant vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}
