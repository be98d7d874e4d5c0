// Package history provides the append-only conversation history store.
//
// Every completed turn is appended as a (query, response) pair with a
// monotonically increasing per-conversation sequence number. Entries are never
// mutated or deleted; Scan returns them in insertion order so callers can
// reliably take the most recent suffix. The history store is the guaranteed
// grounding tier: keyword search over it works with zero additional
// infrastructure when vector retrieval is cold or unavailable.
package history

import "context"

// Entry is a single recorded exchange. Identity is (ConversationID, Seq).
type Entry struct {
	// ConversationID identifies the conversation the exchange belongs to.
	ConversationID string `json:"conversation_id"`

	// Query is the user query as received.
	Query string `json:"query"`

	// Response is the answer that was returned for the query.
	Response string `json:"response"`

	// Seq is the monotonic per-conversation sequence number, assigned by
	// the store on append.
	Seq int64 `json:"seq"`
}

// Driver handles appending and scanning conversation history.
type Driver interface {
	// Append records a completed exchange. The store assigns the sequence
	// number. Storage failure is not locally recoverable.
	Append(ctx context.Context, conversationID, query, response string) error

	// Scan returns all entries for a conversation in insertion order.
	// An unknown conversation yields an empty slice, not an error.
	Scan(ctx context.Context, conversationID string) ([]Entry, error)

	// Close releases driver resources.
	Close() error
}
