package reconcile

import (
	"sync"
)

// Locks serializes load-decide-persist cycles per order id. Entries are
// refcounted and reaped as soon as the last holder releases, so the table
// only holds keys with in-flight work. Unrelated orders never contend.
type Locks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewLocks creates an empty lock table
func NewLocks() *Locks {
	return &Locks{entries: make(map[string]*lockEntry)}
}

// Lock acquires the mutex for the given key and returns its release func.
// Release must be deferred so the lock is never left held on error paths.
func (l *Locks) Lock(key string) func() {
	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &lockEntry{}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()
	}
}

// OrderLocks is the shared per-order lock table used by every status writer
var OrderLocks = NewLocks()
