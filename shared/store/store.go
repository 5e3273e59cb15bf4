// Package store persists whole collections as versioned JSON documents.
//
// Every collection lives under a fixed key and is replaced in full on each
// write. Writes carry the version they were derived from, so two writers
// racing on the same collection cannot silently drop each other's changes.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	KeyUsers          = "users"
	KeyLeads          = "leads"
	KeySupportTickets = "support_tickets"
)

const maxMutateAttempts = 3

var (
	ErrNotFound        = errors.New("collection not found")
	ErrVersionConflict = errors.New("collection was modified by another writer")
	// ErrNoChange is returned by a MutateFunc to skip the write.
	ErrNoChange = errors.New("collection unchanged")
)

// Snapshot is the stored document of one collection. Version 0 means the key was never written.
type Snapshot struct {
	Data    []byte
	Version int64
}

type Store interface {
	// Load returns ErrNotFound when the key was never written.
	Load(ctx context.Context, key string) (Snapshot, error)
	// Save replaces the collection when its stored version equals expectedVersion
	// and returns the new version. Otherwise it returns ErrVersionConflict.
	Save(ctx context.Context, key string, data []byte, expectedVersion int64) (int64, error)
}

// Collection is a typed view over one key of a Store.
type Collection[T any] struct {
	store Store
	key   string
}

type MutateFunc[T any] func(items []T) ([]T, error)

func NewCollection[T any](s Store, key string) Collection[T] {
	return Collection[T]{store: s, key: key}
}

func (c Collection[T]) Key() string {
	return c.key
}

// Load decodes the stored items. An absent key yields no items and version 0.
func (c Collection[T]) Load(ctx context.Context) ([]T, int64, error) {
	snap, err := c.store.Load(ctx, c.key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, 0, nil
	}

	if err != nil {
		return nil, 0, err
	}

	items := []T{}
	if len(snap.Data) > 0 {
		if err = json.Unmarshal(snap.Data, &items); err != nil {
			return nil, 0, fmt.Errorf("failed to decode collection %q: %w", c.key, err)
		}
	}

	return items, snap.Version, nil
}

func (c Collection[T]) Save(ctx context.Context, items []T, version int64) (int64, error) {
	if items == nil {
		items = []T{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("failed to encode collection %q: %w", c.key, err)
	}

	return c.store.Save(ctx, c.key, data, version)
}

// Mutate loads the collection, applies fn and writes the result back.
// On a version conflict fn is re-applied to the fresh state, a bounded number of times.
func (c Collection[T]) Mutate(ctx context.Context, fn MutateFunc[T]) ([]T, error) {
	for range maxMutateAttempts {
		items, version, err := c.Load(ctx)
		if err != nil {
			return nil, err
		}

		next, err := fn(items)
		if errors.Is(err, ErrNoChange) {
			return items, nil
		}

		if err != nil {
			return nil, err
		}

		_, err = c.Save(ctx, next, version)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}

		if err != nil {
			return nil, err
		}

		return next, nil
	}

	return nil, ErrVersionConflict
}
