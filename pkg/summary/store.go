// Package summary maintains the bounded rolling summary for each
// conversation: a single mutable string per conversation ID, updated
// exclusively through the Merger and persisted through a Store.
package summary

import "context"

// Summary is the bounded textual digest of a conversation.
type Summary struct {
	// ConversationID identifies the conversation.
	ConversationID string `json:"conversation_id"`

	// Text is the digest, at most the configured character budget.
	Text string `json:"text"`

	// Version increases by one on every write. A fresh conversation has
	// version 0 and empty text.
	Version int64 `json:"version"`
}

// Store persists one summary per conversation with last-write-wins
// semantics. Summaries are never evicted: the per-conversation budget keeps
// the in-memory footprint bounded by conversation count, and durable
// backends simply retain rows.
type Store interface {
	// Get returns the summary for a conversation. An unknown conversation
	// yields an empty version-0 summary, not an error.
	Get(ctx context.Context, conversationID string) (Summary, error)

	// Set replaces the summary text and returns the new version.
	Set(ctx context.Context, conversationID, text string) (int64, error)

	// Close releases store resources.
	Close() error
}
