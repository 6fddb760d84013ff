package service

import "sync"

// keyedLock serializes work per string key. The upsert path uses it to
// keep two concurrent read-modify-write cycles for the same
// (collection, email) from both observing NotFound and both creating.
// It only covers this process; duplicates across instances remain
// possible because the record store has no conditional write.
type keyedLock struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLock() *keyedLock {
	return &keyedLock{locks: make(map[string]*lockEntry)}
}

// Lock acquires the lock for key and returns the matching unlock func.
func (k *keyedLock) Lock(key string) func() {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
