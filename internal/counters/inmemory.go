package counters

import (
	"context"
	"sync"
)

// inMemoryCounter tracks redelivery counts in a process-local map, guarded
// by a mutex since Incr/Get/Clear may be called from concurrent session
// delivery goroutines.
type inMemoryCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func newInMemoryCounter() *inMemoryCounter {
	return &inMemoryCounter{counts: map[string]int{}}
}

func (c *inMemoryCounter) Get(_ context.Context, messageID string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[messageID], nil
}

func (c *inMemoryCounter) Incr(_ context.Context, messageID string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[messageID]++
	return c.counts[messageID], nil
}

func (c *inMemoryCounter) Clear(_ context.Context, messageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.counts, messageID)
	return nil
}
