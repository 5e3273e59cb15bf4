//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"umrahcrm/infras/otel/mocks"
	"umrahcrm/shared/repository"
	"umrahcrm/shared/store"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const collectionsDDL = `
CREATE TABLE collections (
    collection_key VARCHAR(64) PRIMARY KEY,
    payload        JSONB       NOT NULL DEFAULT '[]'::jsonb,
    version        BIGINT      NOT NULL DEFAULT 1,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    modified_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    created_by     VARCHAR(255) NOT NULL DEFAULT '',
    modified_by    VARCHAR(255) NOT NULL DEFAULT ''
)`

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("umrahcrm"),
		postgres.WithUsername("umrahcrm"),
		postgres.WithPassword("umrahcrm"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, collectionsDDL)
	require.NoError(t, err)

	s := store.NewSQL(&repository.Connection{Read: db, Write: db}, mocks.NewOtel())

	_, err = s.Load(ctx, store.KeyLeads)
	assert.ErrorIs(t, err, store.ErrNotFound)

	version, err := s.Save(ctx, store.KeyLeads, []byte(`[{"id":"1"}]`), 0)
	require.NoError(t, err)

	_, err = s.Save(ctx, store.KeyLeads, []byte(`[]`), 0)
	assert.ErrorIs(t, err, store.ErrVersionConflict)

	version, err = s.Save(ctx, store.KeyLeads, []byte(`[{"id":"2"}]`), version)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	snap, err := s.Load(ctx, store.KeyLeads)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"2"}]`, string(snap.Data))
}
