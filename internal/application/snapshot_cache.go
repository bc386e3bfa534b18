package application

import (
	"sync"
	"time"

	"github.com/example/floor-manager/internal/floor"
)

// snapshotCache keeps the last snapshot read from or written to the store so that
// read-heavy views do not decode the floor on every request. Entries expire after
// ttl; writes that hit a version conflict invalidate the entry.
type snapshotCache struct {
	mu    sync.RWMutex
	now   func() time.Time
	ttl   time.Duration
	entry *snapshotCacheEntry
}

type snapshotCacheEntry struct {
	snapshot  floor.Snapshot
	version   int64
	expiresAt time.Time
}

func newSnapshotCache(ttl time.Duration, now func() time.Time) *snapshotCache {
	if ttl <= 0 {
		return nil
	}
	if now == nil {
		now = time.Now
	}
	return &snapshotCache{now: now, ttl: ttl}
}

func (c *snapshotCache) Get() (floor.Snapshot, int64, bool) {
	if c == nil {
		return floor.Snapshot{}, 0, false
	}
	c.mu.RLock()
	entry := c.entry
	c.mu.RUnlock()
	if entry == nil {
		return floor.Snapshot{}, 0, false
	}
	if c.now().After(entry.expiresAt) {
		c.Invalidate()
		return floor.Snapshot{}, 0, false
	}
	return entry.snapshot.Clone(), entry.version, true
}

func (c *snapshotCache) Store(snap floor.Snapshot, version int64) {
	if c == nil {
		return
	}
	entry := &snapshotCacheEntry{
		snapshot:  snap.Clone(),
		version:   version,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Lock()
	c.entry = entry
	c.mu.Unlock()
}

func (c *snapshotCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entry = nil
	c.mu.Unlock()
}
