// Package inmemory provides an in-process implementation of history.Driver.
//
// Entries live in a mutex-guarded map keyed by conversation ID for the
// process lifetime. This is the default backend for local development and
// tests; the sqlite backend provides durability.
package inmemory

import (
	"context"
	"sync"

	"github.com/loomworksco/recall/pkg/history"
)

// Driver implements history.Driver using in-process data structures.
type Driver struct {
	mu sync.RWMutex

	// entries maps conversation ID -> exchanges in insertion order.
	entries map[string][]history.Entry
}

// NewDriver creates an in-memory history driver.
func NewDriver() *Driver {
	return &Driver{
		entries: make(map[string][]history.Entry),
	}
}

// Append records an exchange, assigning the next sequence number.
func (d *Driver) Append(_ context.Context, conversationID, query, response string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries[conversationID] = append(d.entries[conversationID], history.Entry{
		ConversationID: conversationID,
		Query:          query,
		Response:       response,
		Seq:            int64(len(d.entries[conversationID])),
	})

	return nil
}

// Scan returns all entries for the conversation in insertion order.
func (d *Driver) Scan(_ context.Context, conversationID string) ([]history.Entry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	entries := d.entries[conversationID]

	// Return a copy to avoid callers mutating internal state.
	result := make([]history.Entry, len(entries))
	copy(result, entries)

	return result, nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}

var _ history.Driver = (*Driver)(nil)
