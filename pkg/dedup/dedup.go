// Package dedup drops repeated event ids seen within a time window.
package dedup

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type Deduper struct {
	mu    sync.Mutex
	clock clockwork.Clock
	ttl   time.Duration
	max   int
	seen  map[string]time.Time
}

// NewWithClock returns a Deduper that expires ids on clock. Zero ttl and max
// fall back to ten minutes and ten thousand ids.
func NewWithClock(clock clockwork.Clock, ttl time.Duration, max int) *Deduper {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if max <= 0 {
		max = 10000
	}
	return &Deduper{clock: clock, ttl: ttl, max: max, seen: make(map[string]time.Time)}
}

// ShouldProcess reports whether id is new within the TTL and records it.
// Empty ids are always processed.
func (d *Deduper) ShouldProcess(id string) bool {
	if id == "" {
		return true
	}
	now := d.clock.Now()
	d.mu.Lock()
	defer d.mu.Unlock()
	if exp, ok := d.seen[id]; ok && now.Before(exp) {
		return false
	}
	d.seen[id] = now.Add(d.ttl)
	if len(d.seen) > d.max {
		d.evict(now)
	}
	return true
}

// Len is the number of ids currently tracked.
func (d *Deduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// evict drops expired ids first, then the ones closest to expiry until the
// map is back under max.
func (d *Deduper) evict(now time.Time) {
	for k, exp := range d.seen {
		if !now.Before(exp) {
			delete(d.seen, k)
		}
	}
	for len(d.seen) > d.max {
		var oldest string
		var oldestExp time.Time
		for k, exp := range d.seen {
			if oldest == "" || exp.Before(oldestExp) {
				oldest, oldestExp = k, exp
			}
		}
		delete(d.seen, oldest)
	}
}
