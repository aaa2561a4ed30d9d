package agent

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is the reference eviction TTL (spec.md §4.H: "reference: 15
// minutes").
const DefaultTTL = 15 * time.Minute

// SweepInterval is how often the sweeper goroutine checks for stale
// entries (spec.md §4.H: "fires every second").
const SweepInterval = time.Second

type cacheEntry struct {
	atime    time.Time
	password []byte
}

// Cache is the agent's uuid→(atime, passphrase) map (spec.md §4.I). All
// operations hold a single mutex across their entire body, including the
// atime update on Get, so no operation observes a half-updated entry.
type Cache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache returns an empty Cache with the given eviction TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[uuid.UUID]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Set stores password under id, stamping the current time as its atime.
// A PUT /passwords call always resets the access time, even if an entry
// already existed (spec.md §4.H).
func (c *Cache) Set(id uuid.UUID, password []byte) {
	buf := make([]byte, len(password))
	copy(buf, password)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = cacheEntry{atime: c.now(), password: buf}
}

// Get returns the cached password for id and refreshes its atime. The
// returned slice is a copy; callers must zeroize it themselves when done.
func (c *Cache) Get(id uuid.UUID) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	entry.atime = c.now()
	c.entries[id] = entry

	out := make([]byte, len(entry.password))
	copy(out, entry.password)
	return out, true
}

// Clear drops every cached passphrase, zeroizing each before release.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, entry := range c.entries {
		zeroize(entry.password)
		delete(c.entries, id)
	}
}

// Sweep evicts every entry whose atime is older than the cache's TTL as
// of now. After Sweep returns, no remaining entry satisfies
// atime < now-ttl (spec.md §8 invariant 9).
func (c *Cache) Sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, entry := range c.entries {
		if now.Sub(entry.atime) >= c.ttl {
			zeroize(entry.password)
			delete(c.entries, id)
		}
	}
}

func zeroize(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
