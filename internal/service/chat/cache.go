package chat

import (
	"strings"
	"sync"
	"time"
)

// contextRetention is how long an idle conversation keeps its cached system
// context before a sweep may reclaim it.
const contextRetention = time.Hour

// Entry holds the built system context for one conversation identity.
type Entry struct {
	Key            string
	SystemContext  string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// ContextCache keys system contexts by subject identity so multi-turn
// conversations reuse the expensive context build instead of repeating it
// every turn. Safe for concurrent use; entries only leave through Sweep.
type ContextCache struct {
	mu        sync.RWMutex
	entries   map[string]*Entry
	retention time.Duration
	now       func() time.Time
}

func NewContextCache(retention time.Duration) *ContextCache {
	if retention <= 0 {
		retention = contextRetention
	}
	return &ContextCache{
		entries:   make(map[string]*Entry),
		retention: retention,
		now:       time.Now,
	}
}

// Get returns a copy of the cached entry, so callers can't mutate cache state.
func (c *ContextCache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

// Put stores a freshly built system context, resetting both timestamps.
func (c *ContextCache) Put(key, systemContext string) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &Entry{
		Key:            key,
		SystemContext:  systemContext,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
}

// Touch marks an entry as recently used so sweeps keep active conversations.
func (c *ContextCache) Touch(key string) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		entry.LastAccessedAt = now
	}
}

// Sweep drops every entry idle for longer than the retention window and
// returns how many were removed.
func (c *ContextCache) Sweep() int {
	cutoff := c.now().Add(-c.retention)

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if entry.LastAccessedAt.Before(cutoff) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *ContextCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// ConversationKey derives the cache key from stable subject identity, never
// from message content.
func ConversationKey(name, category string) string {
	return normalizeKeyPart(name) + "|" + normalizeKeyPart(category)
}

func normalizeKeyPart(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
