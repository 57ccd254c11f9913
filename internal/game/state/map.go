// Package state abstracts the replicated per-room document the engine
// mutates. The engine only ever sees a key/value map with change
// observation; whatever replication technology sits behind it is somebody
// else's problem.
package state

import "sync"

// ChangeKind describes what happened to an observed key.
type ChangeKind string

const (
	ChangeSet    ChangeKind = "SET"
	ChangeDelete ChangeKind = "DELETE"
)

// Change is delivered to observers after a mutation is applied.
type Change struct {
	Key   string
	Kind  ChangeKind
	Value any
}

// Observer receives change notifications for a map.
type Observer func(Change)

// Map is the key/value store contract the engine works against. Writes are
// immediately visible to the next read on the same call path.
type Map interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Delete(key string)
	Keys() []string
	Observe(fn Observer) (cancel func())
}

// MemoryMap is the in-process Map implementation used by the server and by
// tests. Observers run synchronously after each mutation.
type MemoryMap struct {
	mu        sync.RWMutex
	entries   map[string]any
	observers map[int]Observer
	nextObs   int
}

// NewMemoryMap creates an empty in-memory map.
func NewMemoryMap() *MemoryMap {
	return &MemoryMap{
		entries:   make(map[string]any),
		observers: make(map[int]Observer),
	}
}

// Get returns the value stored under key.
func (m *MemoryMap) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok
}

// Set stores value under key and notifies observers.
func (m *MemoryMap) Set(key string, value any) {
	m.mu.Lock()
	m.entries[key] = value
	obs := m.snapshotObservers()
	m.mu.Unlock()

	for _, fn := range obs {
		fn(Change{Key: key, Kind: ChangeSet, Value: value})
	}
}

// Delete removes key and notifies observers.
func (m *MemoryMap) Delete(key string) {
	m.mu.Lock()
	_, existed := m.entries[key]
	delete(m.entries, key)
	obs := m.snapshotObservers()
	m.mu.Unlock()

	if !existed {
		return
	}
	for _, fn := range obs {
		fn(Change{Key: key, Kind: ChangeDelete})
	}
}

// Keys returns all present keys in unspecified order.
func (m *MemoryMap) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	return keys
}

// Observe registers a change observer and returns its cancel function.
func (m *MemoryMap) Observe(fn Observer) func() {
	m.mu.Lock()
	id := m.nextObs
	m.nextObs++
	m.observers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.observers, id)
		m.mu.Unlock()
	}
}

func (m *MemoryMap) snapshotObservers() []Observer {
	obs := make([]Observer, 0, len(m.observers))
	for _, fn := range m.observers {
		obs = append(obs, fn)
	}
	return obs
}
