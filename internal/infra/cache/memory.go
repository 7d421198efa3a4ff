package cache

import (
	"context"
	"sync"
	"time"

	"clinic-scheduler/internal/domain/slot"

	"clinic-scheduler/internal/pkg/clock"
)

type memoryEntry struct {
	slots     []slot.Slot
	tags      []string
	expiresAt time.Time
}

// MemoryCache is the in-process SlotCache: a read-mostly map whose entries
// are immutable once written and replaced wholesale. A secondary tag index
// lets Invalidate drop every dependent entry without scanning values.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[Key]*memoryEntry
	byTag   map[string]map[Key]struct{}
	clock   clock.Clock
}

func NewMemoryCache(clk clock.Clock) *MemoryCache {
	return &MemoryCache{
		entries: make(map[Key]*memoryEntry),
		byTag:   make(map[string]map[Key]struct{}),
		clock:   clk,
	}
}

func (c *MemoryCache) Get(_ context.Context, key Key) ([]slot.Slot, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if c.clock.Now().After(entry.expiresAt) {
		c.mu.Lock()
		c.removeLocked(key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.slots, true, nil
}

func (c *MemoryCache) Put(_ context.Context, key Key, slots []slot.Slot, tags []string, ttl time.Duration) error {
	entry := &memoryEntry{
		slots:     slots,
		tags:      tags,
		expiresAt: c.clock.Now().Add(ttl),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeLocked(key)
	c.entries[key] = entry
	for _, tag := range tags {
		keys, ok := c.byTag[tag]
		if !ok {
			keys = make(map[Key]struct{})
			c.byTag[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, tags ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tag := range tags {
		for key := range c.byTag[tag] {
			c.removeLocked(key)
		}
	}
	return nil
}

// removeLocked drops an entry and its tag-index references; c.mu must be held.
func (c *MemoryCache) removeLocked(key Key) {
	entry, ok := c.entries[key]
	if !ok {
		return
	}
	delete(c.entries, key)
	for _, tag := range entry.tags {
		if keys, ok := c.byTag[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(c.byTag, tag)
			}
		}
	}
}

// Len reports the number of live entries; used by tests.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
