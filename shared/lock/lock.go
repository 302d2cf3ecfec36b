package lock

import "sync"

// KeyedMutex serializes critical sections per key. The booking service
// uses it to make the conflict-check-then-insert sequence atomic per
// asset, so two racing submissions for the same asset cannot both pass
// the check before either row exists.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: map[string]*keyLock{},
	}
}

// Lock acquires the mutex for the given key, creating it on first use.
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()

	entry, ok := k.locks[key]
	if !ok {
		entry = &keyLock{}
		k.locks[key] = entry
	}

	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
}

// Unlock releases the mutex for the given key and drops it once no
// goroutine is waiting on it.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()

	entry, ok := k.locks[key]
	if !ok {
		k.mu.Unlock()

		return
	}

	entry.refs--
	if entry.refs == 0 {
		delete(k.locks, key)
	}

	k.mu.Unlock()
	entry.mu.Unlock()
}
