package turn

import "sync"

// conversationLocks serializes turns per conversation. Distinct conversations
// proceed concurrently; two turns on the same ID run one at a time so the
// summary read-merge-write cycle never interleaves.
type conversationLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newConversationLocks() *conversationLocks {
	return &conversationLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// acquire locks the mutex for the conversation, creating it on first use, and
// returns the unlock function.
func (c *conversationLocks) acquire(conversationID string) func() {
	c.mu.Lock()
	lock, ok := c.locks[conversationID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[conversationID] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
