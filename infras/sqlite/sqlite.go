package sqlite

//nolint:revive
import (
	"fmt"

	"umrahcrm/config"
	"umrahcrm/shared/repository"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS collections (
	collection_key TEXT PRIMARY KEY,
	payload        TEXT NOT NULL DEFAULT '[]',
	version        INTEGER NOT NULL DEFAULT 1,
	created_at     DATETIME DEFAULT CURRENT_TIMESTAMP,
	modified_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
	created_by     TEXT NOT NULL DEFAULT '',
	modified_by    TEXT NOT NULL DEFAULT ''
);
`

// New opens the local database file and makes sure the schema exists.
// SQLite allows a single writer, so reads and writes share one pool.
func New(config *config.Config) (*repository.Connection, error) {
	path := config.DB.SQLite.Path

	db, err := sqlx.Connect("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}

	log.Info().Str("path", path).Msg("Opened sqlite database")

	return &repository.Connection{Read: db, Write: db}, nil
}
