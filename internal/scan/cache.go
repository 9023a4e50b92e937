package scan

import "sync"

// DuplicateCache is the process-wide set of pass ids known to be checked in.
// It is an accelerator, not a source of truth: the repository stays
// authoritative, the cache may lag it by at most one request round-trip.
// Entries live for the process lifetime and are never evicted or persisted;
// a restarted instance rebuilds the set lazily from observed duplicates.
// Not shared across instances.
type DuplicateCache struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func NewDuplicateCache() *DuplicateCache {
	return &DuplicateCache{ids: make(map[string]struct{})}
}

func (c *DuplicateCache) Add(passID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids[passID] = struct{}{}
}

func (c *DuplicateCache) Has(passID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.ids[passID]
	return ok
}

func (c *DuplicateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}
