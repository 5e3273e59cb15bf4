package store

import (
	"context"
	"slices"
	"sync"
)

type memoryStore struct {
	mu          sync.RWMutex
	collections map[string]Snapshot
}

// NewMemory returns a process-local Store. Contents are lost on exit.
func NewMemory() Store {
	return &memoryStore{collections: map[string]Snapshot{}}
}

func (m *memoryStore) Load(_ context.Context, key string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.collections[key]
	if !ok {
		return Snapshot{}, ErrNotFound
	}

	return Snapshot{Data: slices.Clone(snap.Data), Version: snap.Version}, nil
}

func (m *memoryStore) Save(_ context.Context, key string, data []byte, expectedVersion int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.collections[key].Version != expectedVersion {
		return 0, ErrVersionConflict
	}

	next := expectedVersion + 1
	m.collections[key] = Snapshot{Data: slices.Clone(data), Version: next}

	return next, nil
}
