package postgres

//nolint:revive
import (
	"fmt"
	"net"
	"net/url"
	"time"

	"umrahcrm/config"
	"umrahcrm/shared/repository"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	maxIdleConnections = 10
	maxOpenConnections = 10
	connMaxLifetime    = 30 * time.Minute
)

// Endpoint is one side of the read/write split.
type Endpoint struct {
	Role     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func WriteEndpoint(cfg *config.Config) Endpoint {
	return endpoint(cfg, "write", cfg.DB.Postgres.Write)
}

func ReadEndpoint(cfg *config.Config) Endpoint {
	return endpoint(cfg, "read", cfg.DB.Postgres.Read)
}

func endpoint(cfg *config.Config, role string, node config.PostgresNode) Endpoint {
	return Endpoint{
		Role:     role,
		Host:     node.Host,
		Port:     node.Port,
		User:     node.Username,
		Password: node.Password,
		Name:     dbName(cfg, node.Name),
		SSLMode:  node.SSLMode,
	}
}

// DSN renders the endpoint as a postgres URL. Extra query parameters are appended verbatim.
func (e Endpoint) DSN(extra url.Values) string {
	query := url.Values{}
	if e.SSLMode != "" {
		query.Set("sslmode", e.SSLMode)
	}

	for key, values := range extra {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.User, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     "/" + e.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// New connects both pools, retrying each up to DB_POSTGRES_MAX_RETRY times.
func New(cfg *config.Config) (*repository.Connection, error) {
	retries := max(cfg.DB.Postgres.MaxRetry, 1)
	wait := time.Duration(cfg.DB.Postgres.RetryWaitTime) * time.Second

	write, err := connect(WriteEndpoint(cfg), retries, wait)
	if err != nil {
		return nil, err
	}

	read, err := connect(ReadEndpoint(cfg), retries, wait)
	if err != nil {
		_ = write.Close()

		return nil, err
	}

	return &repository.Connection{Read: read, Write: write}, nil
}

func connect(endpoint Endpoint, retries int, wait time.Duration) (*sqlx.DB, error) {
	var err error

	for attempt := 1; attempt <= retries; attempt++ {
		var db *sqlx.DB

		db, err = sqlx.Connect("postgres", endpoint.DSN(nil))
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnections)
			db.SetMaxOpenConns(maxOpenConnections)
			db.SetConnMaxLifetime(connMaxLifetime)

			log.Info().Str("role", endpoint.Role).Str("host", endpoint.Host).Str("db", endpoint.Name).Msg("Connected to postgres")

			return db, nil
		}

		log.Error().Err(err).Str("role", endpoint.Role).Int("attempt", attempt).Msg("Failed connecting to postgres, retrying")

		if attempt < retries {
			time.Sleep(wait)
		}
	}

	return nil, fmt.Errorf("postgres %s unreachable after %d attempts: %w", endpoint.Role, retries, err)
}

func dbName(cfg *config.Config, name string) string {
	return cfg.DB.Postgres.Prefix + name
}
