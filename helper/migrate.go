package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"

	"umrahcrm/config"
	"umrahcrm/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

// MigrationsSource holds the schema for the postgres collection store.
const MigrationsSource = "file://migrations/postgres"

var ErrUnknownAction = errors.New("unknown migration action")

type step func(mig *migrate.Migrate) error

// Actions lists the commands accepted by cmd/migrate.
var Actions = map[string]step{
	"up":      func(mig *migrate.Migrate) error { return mig.Up() },
	"down":    func(mig *migrate.Migrate) error { return mig.Steps(-1) },
	"step-up": func(mig *migrate.Migrate) error { return mig.Steps(1) },
	"drop":    func(mig *migrate.Migrate) error { return mig.Down() },
	"version": logVersion,
}

func open(cfg *config.Config) (*migrate.Migrate, error) {
	var extra url.Values
	if table := cfg.DB.Postgres.MigrationTable; table != "" {
		extra = url.Values{"x-migrations-table": {table}}
	}

	mig, err := migrate.New(MigrationsSource, postgres.WriteEndpoint(cfg).DSN(extra))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

// Run executes one of Actions against the write database. An up-to-date schema is not an error.
func Run(cfg *config.Config, action string) error {
	run, ok := Actions[action]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	mig, err := open(cfg)
	if err != nil {
		return err
	}

	defer func() {
		if srcErr, dbErr := mig.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("failed to close migrator")
		}
	}()

	if err = run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %q failed: %w", action, err)
	}

	log.Info().Str("action", action).Msg("Database migration finished")

	return nil
}

func Up(cfg *config.Config) error {
	return Run(cfg, "up")
}

func logVersion(mig *migrate.Migrate) error {
	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current schema version")

	return nil
}
