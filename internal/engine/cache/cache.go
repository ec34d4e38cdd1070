// Package cache stores classifications keyed by file identity.
package cache

import (
	"fmt"
	"sync"

	"go.trai.ch/rscd/internal/core/domain"
)

// Ticket records the cache state observed before a classification was computed.
// PutIfCurrent uses it to drop results that were invalidated while in flight.
type Ticket struct {
	epoch uint64
	gen   uint64
}

// String identifies the cache state captured by the ticket.
func (t Ticket) String() string {
	return fmt.Sprintf("%d.%d", t.epoch, t.gen)
}

// Cache maps file identities to classifications.
// Entries are created lazily, removed on invalidation and dropped wholesale on Clear.
// There is no TTL and no eviction.
type Cache struct {
	mu          sync.RWMutex
	entries     map[domain.FileIdentity]domain.Classification
	generations map[domain.FileIdentity]uint64
	epoch       uint64
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries:     make(map[domain.FileIdentity]domain.Classification),
		generations: make(map[domain.FileIdentity]uint64),
	}
}

// Get returns the cached classification for id.
func (c *Cache) Get(id domain.FileIdentity) (domain.Classification, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cl, ok := c.entries[id]
	return cl, ok
}

// Put stores a classification unconditionally.
func (c *Cache) Put(id domain.FileIdentity, cl domain.Classification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[id] = cl
}

// Begin snapshots the state for id before its content is read.
func (c *Cache) Begin(id domain.FileIdentity) Ticket {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Ticket{epoch: c.epoch, gen: c.generations[id]}
}

// PutIfCurrent stores cl only if id was neither invalidated nor cleared since t was taken.
// It reports whether the value was stored.
func (c *Cache) PutIfCurrent(id domain.FileIdentity, cl domain.Classification, t Ticket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.epoch != c.epoch || t.gen != c.generations[id] {
		return false
	}
	c.entries[id] = cl
	return true
}

// Invalidate removes the entry for id so the next lookup recomputes it.
func (c *Cache) Invalidate(id domain.FileIdentity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, id)
	c.generations[id]++
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[domain.FileIdentity]domain.Classification)
	c.generations = make(map[domain.FileIdentity]uint64)
	c.epoch++
}

// Tracked returns the number of identities carrying invalidation state.
// It only shrinks on Clear, so callers should invalidate identities they query.
func (c *Cache) Tracked() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.generations)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
