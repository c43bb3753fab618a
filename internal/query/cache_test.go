package query

import (
	"sync"
	"testing"
	"time"

	"opsboard/internal/analytics"
	"opsboard/internal/partsorder"
)

// fakeClock lets tests steer cache age without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache(clock *fakeClock, ttl time.Duration) (*Cache, *int) {
	builds := 0
	build := func() Snapshot {
		builds++
		return Snapshot{
			Dataset: partsorder.Dataset{Records: []partsorder.Record{}, LoadedAt: clock.Now()},
			Summary: analytics.Summary{GeneratedAt: clock.Now()},
		}
	}
	return NewCache(build, ttl, clock.Now), &builds
}

func TestCacheReusesSnapshotWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	cache, builds := newTestCache(clock, 5*time.Minute)

	first := cache.Get()
	clock.Advance(2 * time.Minute)
	second := cache.Get()

	if first != second {
		t.Error("within the TTL, Get must return the identical snapshot")
	}
	if first.Dataset.LoadedAt != second.Dataset.LoadedAt {
		t.Error("load timestamps should match for a reused snapshot")
	}
	if *builds != 1 {
		t.Errorf("expected a single build, got %d", *builds)
	}
}

func TestCacheRebuildsAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	cache, builds := newTestCache(clock, 5*time.Minute)

	first := cache.Get()
	clock.Advance(6 * time.Minute)
	second := cache.Get()

	if !second.Dataset.LoadedAt.After(first.Dataset.LoadedAt) {
		t.Error("after TTL expiry the snapshot must carry a strictly later load timestamp")
	}
	if *builds != 2 {
		t.Errorf("expected two builds, got %d", *builds)
	}
}

func TestCacheInvalidateForcesRebuild(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	cache, builds := newTestCache(clock, time.Hour)

	cache.Get()
	cache.Invalidate()
	clock.Advance(time.Second)
	cache.Get()

	if *builds != 2 {
		t.Errorf("invalidate must force a rebuild regardless of age, got %d builds", *builds)
	}
}

func TestCacheConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}

	build := func() Snapshot {
		ts := clock.Now()
		return Snapshot{
			Dataset: partsorder.Dataset{
				Records:  []partsorder.Record{{SKU: ts.String()}},
				LoadedAt: ts,
			},
			Summary: analytics.Summary{GeneratedAt: ts},
		}
	}
	cache := NewCache(build, time.Minute, clock.Now)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				snap := cache.Get()
				// Snapshot internal consistency: the record written at
				// build time matches the snapshot's own timestamp.
				if snap.Dataset.Records[0].SKU != snap.Dataset.LoadedAt.String() {
					t.Error("observed a torn snapshot")
					return
				}
				if j%50 == 0 {
					cache.Invalidate()
				}
			}
		}()
	}
	wg.Wait()
}

func TestCacheDefaultTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	cache, builds := newTestCache(clock, 0)

	cache.Get()
	clock.Advance(4 * time.Minute)
	cache.Get()
	if *builds != 1 {
		t.Errorf("default TTL is five minutes; got %d builds", *builds)
	}

	clock.Advance(2 * time.Minute)
	cache.Get()
	if *builds != 2 {
		t.Errorf("expected rebuild after default TTL, got %d builds", *builds)
	}
}
