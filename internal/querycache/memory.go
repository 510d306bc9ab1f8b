package querycache

import (
	"context"
	"sync"
)

type MemoryBackend[V any] struct {
	mtx      sync.RWMutex
	entries  map[string]V
	versions map[string]uint64
}

func NewMemoryBackend[V any]() *MemoryBackend[V] {
	return &MemoryBackend[V]{
		entries:  make(map[string]V),
		versions: make(map[string]uint64),
	}
}

func (m *MemoryBackend[V]) Load(ctx context.Context, key string) (V, bool, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemoryBackend[V]) Version(ctx context.Context, key string) (uint64, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	return m.versions[key], nil
}

func (m *MemoryBackend[V]) Store(ctx context.Context, key string, value V, version uint64) (bool, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.versions[key] != version {
		return false, nil
	}
	m.entries[key] = value
	return true, nil
}

func (m *MemoryBackend[V]) Delete(ctx context.Context, keys ...string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	for _, k := range keys {
		delete(m.entries, k)
		m.versions[k]++
	}
	return nil
}
