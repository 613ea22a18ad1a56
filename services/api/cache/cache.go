// Package cache provides a read-through table with time-based expiry, used
// in front of the raw source loaders. Entries are immutable once populated;
// concurrent callers may race to populate the same key, in which case the
// latest write wins. All writes for a key carry identical data, so the race
// is benign.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value   V
	expires time.Time
}

// Table is a keyed read-through cache with a fixed TTL.
type Table[V any] struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry[V]
}

// New creates a Table whose entries expire after ttl.
func New[V any](ttl time.Duration) *Table[V] {
	return &Table[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the cached value for key, invoking load on a miss or after
// expiry. Load errors are returned to the caller and never cached. The load
// runs outside the lock so a slow source does not serialize other keys.
func (t *Table[V]) Get(key string, load func() (V, error)) (V, error) {
	t.mu.Lock()
	if e, ok := t.entries[key]; ok && t.now().Before(e.expires) {
		t.mu.Unlock()
		return e.value, nil
	}
	t.mu.Unlock()

	value, err := load()
	if err != nil {
		var zero V
		return zero, err
	}

	t.mu.Lock()
	t.entries[key] = entry[V]{value: value, expires: t.now().Add(t.ttl)}
	t.mu.Unlock()
	return value, nil
}

// Invalidate drops a single key.
func (t *Table[V]) Invalidate(key string) {
	t.mu.Lock()
	delete(t.entries, key)
	t.mu.Unlock()
}
