package session

import "sync"

// KeyedMutex serializes work per conversation key so a single conversation's
// events are handled in arrival order even when the dispatcher runs them on
// separate goroutines.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*sync.Mutex),
	}
}

func (m *KeyedMutex) Lock(key string) {
	m.mu.Lock()
	lock, ok := m.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[key] = lock
	}
	m.mu.Unlock()

	lock.Lock()
}

func (m *KeyedMutex) Unlock(key string) {
	m.mu.Lock()
	lock, ok := m.locks[key]
	m.mu.Unlock()

	if ok {
		lock.Unlock()
	}
}
