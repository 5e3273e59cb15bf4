package store

import (
	"context"
	"fmt"

	"umrahcrm/config"
	"umrahcrm/helper"
	"umrahcrm/infras/mongodb"
	"umrahcrm/infras/otel"
	"umrahcrm/infras/postgres"
	"umrahcrm/infras/sqlite"
	"umrahcrm/shared/constant"

	"github.com/rs/zerolog/log"
)

// Open builds the Store selected by STORE_DRIVER. The returned cleanup releases its connections.
func Open(cfg *config.Config, otel otel.Otel) (Store, func(), error) {
	switch cfg.Store.Driver {
	case constant.StoreDriverMemory:
		log.Warn().Msg("Using in-memory store, data will not survive a restart")

		return NewMemory(), func() {}, nil
	case constant.StoreDriverPostgres:
		if cfg.DB.Postgres.AutoMigrate {
			if err := helper.Up(cfg); err != nil {
				return nil, nil, fmt.Errorf("failed to migrate postgres: %w", err)
			}
		}

		conn, err := postgres.New(cfg)
		if err != nil {
			return nil, nil, err
		}

		return NewSQL(conn, otel), closer(conn.Close, "postgres"), nil
	case constant.StoreDriverSQLite:
		conn, err := sqlite.New(cfg)
		if err != nil {
			return nil, nil, err
		}

		return NewSQL(conn, otel), closer(conn.Close, "sqlite"), nil
	case constant.StoreDriverMongo:
		db, err := mongodb.New(cfg)
		if err != nil {
			return nil, nil, err
		}

		disconnect := func() error { return db.Client().Disconnect(context.Background()) }

		return NewMongo(db, otel), closer(disconnect, "mongo"), nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func closer(fn func() error, name string) func() {
	return func() {
		if err := fn(); err != nil {
			log.Error().Err(err).Str("driver", name).Msg("failed to close store")
		}
	}
}
