package query

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"opsboard/internal/analytics"
	"opsboard/internal/partsorder"
)

// DefaultTTL is how long a cached snapshot stays fresh.
const DefaultTTL = 5 * time.Minute

// Snapshot is one immutable cache generation: the parsed dataset plus
// its summary. It is built wholesale and never patched, so readers can
// hold one across a rebuild.
type Snapshot struct {
	Dataset partsorder.Dataset
	Summary analytics.Summary
}

// BuildFunc produces a fresh Snapshot. It must not fail: source
// unavailability degrades to an empty dataset inside the loader.
type BuildFunc func() Snapshot

// Cache holds the most recent Snapshot and rebuilds it when its age
// exceeds the TTL or after an explicit Invalidate. The current snapshot
// is swapped atomically; concurrent readers see either the old
// generation or the new one, never a partial build.
type Cache struct {
	build BuildFunc
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex // serializes rebuilds
	current atomic.Pointer[Snapshot]
}

// NewCache creates a Cache. ttl <= 0 falls back to DefaultTTL; a nil
// clock uses time.Now. The clock injection exists so tests control age
// deterministically instead of sleeping.
func NewCache(build BuildFunc, ttl time.Duration, clock func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &Cache{build: build, ttl: ttl, now: clock}
}

// Get returns the current snapshot, rebuilding first on a cold cache or
// when the cached generation has aged past the TTL.
func (c *Cache) Get() *Snapshot {
	if snap := c.current.Load(); snap != nil && !c.expired(snap) {
		return snap
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another request may have rebuilt while we waited on the lock.
	if snap := c.current.Load(); snap != nil && !c.expired(snap) {
		return snap
	}

	snap := c.build()
	c.current.Store(&snap)
	log.Debug().
		Int("records", len(snap.Dataset.Records)).
		Time("loadedAt", snap.Dataset.LoadedAt).
		Msg("Parts cache rebuilt")
	return &snap
}

// Invalidate forces the next Get to rebuild regardless of age.
func (c *Cache) Invalidate() {
	c.current.Store(nil)
}

func (c *Cache) expired(snap *Snapshot) bool {
	return c.now().Sub(snap.Dataset.LoadedAt) > c.ttl
}
