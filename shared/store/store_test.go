package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"umrahcrm/config"
	"umrahcrm/infras/otel/mocks"
	"umrahcrm/infras/sqlite"
	"umrahcrm/shared/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newSQLiteStore(t *testing.T) store.Store {
	t.Helper()

	cfg := &config.Config{}
	cfg.DB.SQLite.Path = filepath.Join(t.TempDir(), "store.db")

	conn, err := sqlite.New(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { _ = conn.Close() })

	return store.NewSQL(conn, mocks.NewOtel())
}

func TestStore_Contract(t *testing.T) {
	backends := map[string]func(t *testing.T) store.Store{
		"memory": func(*testing.T) store.Store { return store.NewMemory() },
		"sqlite": newSQLiteStore,
	}

	for name, build := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := build(t)

			_, err := s.Load(ctx, store.KeyLeads)
			assert.ErrorIs(t, err, store.ErrNotFound)

			version, err := s.Save(ctx, store.KeyLeads, []byte(`[{"id":"1"}]`), 0)
			require.NoError(t, err)
			assert.Equal(t, int64(1), version)

			snap, err := s.Load(ctx, store.KeyLeads)
			require.NoError(t, err)
			assert.JSONEq(t, `[{"id":"1"}]`, string(snap.Data))
			assert.Equal(t, int64(1), snap.Version)

			_, err = s.Save(ctx, store.KeyLeads, []byte(`[]`), 0)
			assert.ErrorIs(t, err, store.ErrVersionConflict)

			version, err = s.Save(ctx, store.KeyLeads, []byte(`[{"id":"2"}]`), 1)
			require.NoError(t, err)
			assert.Equal(t, int64(2), version)

			_, err = s.Save(ctx, store.KeyLeads, []byte(`[]`), 1)
			assert.ErrorIs(t, err, store.ErrVersionConflict)

			_, err = s.Load(ctx, store.KeySupportTickets)
			assert.ErrorIs(t, err, store.ErrNotFound, "keys are independent")
		})
	}
}

func TestCollection_LoadAbsent(t *testing.T) {
	coll := store.NewCollection[item](store.NewMemory(), store.KeyUsers)

	items, version, err := coll.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
	assert.Zero(t, version)
}

func TestCollection_LoadMalformed(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	_, err := s.Save(ctx, store.KeyUsers, []byte(`{not json`), 0)
	require.NoError(t, err)

	_, _, err = store.NewCollection[item](s, store.KeyUsers).Load(ctx)
	assert.Error(t, err)
}

func TestCollection_Mutate(t *testing.T) {
	ctx := context.Background()
	coll := store.NewCollection[item](store.NewMemory(), store.KeyLeads)

	got, err := coll.Mutate(ctx, func(items []item) ([]item, error) {
		return append(items, item{ID: "a"}), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "a"}}, got)

	got, err = coll.Mutate(ctx, func([]item) ([]item, error) {
		return nil, store.ErrNoChange
	})
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "a"}}, got)

	boom := errors.New("boom")
	_, err = coll.Mutate(ctx, func([]item) ([]item, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	items, version, err := coll.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "a"}}, items)
	assert.Equal(t, int64(1), version)
}

// racingStore lets another writer slip in once between a Load and the following Save.
type racingStore struct {
	store.Store
	raced bool
}

func (r *racingStore) Save(ctx context.Context, key string, data []byte, expected int64) (int64, error) {
	if !r.raced {
		r.raced = true

		if _, err := r.Store.Save(ctx, key, []byte(`[{"id":"other"}]`), expected); err != nil {
			return 0, err
		}
	}

	return r.Store.Save(ctx, key, data, expected)
}

func TestCollection_MutateRetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	coll := store.NewCollection[item](&racingStore{Store: store.NewMemory()}, store.KeyLeads)

	calls := 0
	got, err := coll.Mutate(ctx, func(items []item) ([]item, error) {
		calls++

		return append([]item{{ID: "mine"}}, items...), nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []item{{ID: "mine"}, {ID: "other"}}, got, "the concurrent write is kept")
}
