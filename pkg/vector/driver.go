// Package vector provides interfaces and implementations for vector index
// storage and similarity search.
package vector

import "context"

// MetricCosine is the similarity metric used for all recall indexes.
const MetricCosine = "cosine"

// Document represents a stored item with its embedding and source text.
type Document struct {
	// ID is a unique identifier for the document (typically
	// "{sourceID}-{chunk seq}").
	ID string

	// Text is the source text the embedding was computed from. It rides
	// along as metadata so query results can be used directly as grounding
	// context without a second lookup.
	Text string

	// Embedding is the vector representation of the document content.
	Embedding []float32
}

// QueryResult represents a search result with similarity score.
type QueryResult struct {
	Document

	// Score represents the similarity score (higher = more similar).
	Score float32
}

// Driver handles storage and retrieval of vector embeddings.
type Driver interface {
	// EnsureIndex creates the named index if it does not exist and is a
	// no-op otherwise. The dimension and metric apply only on creation.
	EnsureIndex(ctx context.Context, name string, dimensions uint, metric string) error

	// Add stores documents with their embeddings. If a document with the
	// same ID already exists, implementers should update the document.
	Add(ctx context.Context, docs []Document) error

	// Query finds the topK most similar documents to the given embedding,
	// ordered by descending score. An empty index yields an empty result,
	// not an error.
	Query(ctx context.Context, embedding []float32, topK int) ([]QueryResult, error)

	// Delete removes documents by their IDs.
	Delete(ctx context.Context, ids []string) error

	// Close releases any resources held by the driver.
	Close() error
}
