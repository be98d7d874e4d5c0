// Package inmemory provides an in-process implementation of summary.Store.
package inmemory

import (
	"context"
	"sync"

	"github.com/loomworksco/recall/pkg/summary"
)

// Store implements summary.Store using a mutex-guarded map. Summaries live
// for the process lifetime.
type Store struct {
	mu sync.RWMutex

	summaries map[string]summary.Summary
}

// NewStore creates an in-memory summary store.
func NewStore() *Store {
	return &Store{
		summaries: make(map[string]summary.Summary),
	}
}

// Get returns the stored summary, or an empty version-0 summary for an
// unknown conversation.
func (s *Store) Get(_ context.Context, conversationID string) (summary.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if existing, ok := s.summaries[conversationID]; ok {
		return existing, nil
	}

	return summary.Summary{ConversationID: conversationID}, nil
}

// Set replaces the summary text and bumps the version.
func (s *Store) Set(_ context.Context, conversationID, text string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.summaries[conversationID].Version + 1
	s.summaries[conversationID] = summary.Summary{
		ConversationID: conversationID,
		Text:           text,
		Version:        next,
	}

	return next, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

var _ summary.Store = (*Store)(nil)
