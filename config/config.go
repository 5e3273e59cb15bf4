package config

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"umrahcrm/shared/constant"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server   Server   `envconfig:"SERVER"`
	App      App      `envconfig:"APP"`
	Store    Store    `envconfig:"STORE"`
	Cache    Cache    `envconfig:"CACHE"`
	JWT      JWT      `envconfig:"JWT"`
	DB       DB       `envconfig:"DB"`
	Kafka    Kafka    `envconfig:"KAFKA"`
	External External `envconfig:"EXTERNAL"`
}

type Server struct {
	Env      string `envconfig:"ENV" default:"production"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT" default:"8080"`
	Shutdown struct {
		GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS" default:"5"`
		CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"10"`
	} `envconfig:"SHUTDOWN"`
}

type App struct {
	Name        string      `envconfig:"NAME" default:"umrahcrm"`
	Timezone    string      `envconfig:"TIMEZONE" default:"Asia/Kuala_Lumpur"`
	BaseURL     string      `envconfig:"BASE_URL"`
	APIKey      string      `envconfig:"API_KEY"`
	CORS        CORS        `envconfig:"CORS"`
	RateLimiter RateLimiter `envconfig:"RATE_LIMITER"`
	Admin       struct {
		Name     string `envconfig:"NAME" default:"Administrator"`
		Email    string `envconfig:"EMAIL"`
		Password string `envconfig:"PASSWORD"`
	} `envconfig:"ADMIN"`

	// Opt-in business rules. All default to the permissive behaviour.
	Lead struct {
		EnforceTransitions bool `envconfig:"ENFORCE_TRANSITIONS"`
	} `envconfig:"LEAD"`
	Voucher struct {
		EnforceExpiry bool `envconfig:"ENFORCE_EXPIRY"`
	} `envconfig:"VOUCHER"`
	Quotation struct {
		ComputeTotals bool `envconfig:"COMPUTE_TOTALS"`
	} `envconfig:"QUOTATION"`
}

type CORS struct {
	Enable           bool     `envconfig:"ENABLE"`
	AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
	AllowedMethods   []string `envconfig:"ALLOWED_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS" default:"Authorization,Content-Type,X-API-Key"`
	AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
	MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS" default:"300"`
}

type RateLimiter struct {
	Enable        bool `envconfig:"ENABLE"`
	MaxRequests   int  `envconfig:"MAX_REQUESTS" default:"120"`
	WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
}

type Store struct {
	Driver string `envconfig:"DRIVER" default:"postgres"`
}

type Cache struct {
	Redis struct {
		Primary RedisNode `envconfig:"PRIMARY"`
	} `envconfig:"REDIS"`
	// TTL in seconds.
	TTL int `envconfig:"TTL" default:"300"`
}

type RedisNode struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT" default:"6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB"`
}

type JWT struct {
	AccessSecret     string `envconfig:"ACCESS_SECRET"`
	RefreshSecret    string `envconfig:"REFRESH_SECRET"`
	AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN" default:"60"`
	RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN" default:"10080"`
}

type DB struct {
	Postgres struct {
		MaxRetry       int          `envconfig:"MAX_RETRY" default:"3"`
		RetryWaitTime  int          `envconfig:"RETRY_WAIT_TIME" default:"2"`
		MigrationTable string       `envconfig:"MIGRATION_TABLE" default:"schema_migrations"`
		AutoMigrate    bool         `envconfig:"AUTO_MIGRATE"`
		Prefix         string       `envconfig:"PREFIX"`
		Read           PostgresNode `envconfig:"READ"`
		Write          PostgresNode `envconfig:"WRITE"`
	} `envconfig:"POSTGRES"`
	SQLite struct {
		Path string `envconfig:"PATH" default:"umrahcrm.db"`
	} `envconfig:"SQLITE"`
	Mongo struct {
		URI      string `envconfig:"URI"`
		Database string `envconfig:"DATABASE" default:"umrahcrm"`
	} `envconfig:"MONGO"`
}

type PostgresNode struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT" default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type Kafka struct {
	Enable        bool     `envconfig:"ENABLE"`
	Brokers       []string `envconfig:"BROKERS"`
	ConsumerGroup string   `envconfig:"CONSUMER_GROUP" default:"umrahcrm"`
	Topic         string   `envconfig:"TOPIC" default:"umrahcrm.events"`
	SASL          struct {
		Username string `envconfig:"USERNAME"`
		Password string `envconfig:"PASSWORD"`
	} `envconfig:"SASL"`
}

type External struct {
	Otel struct {
		Endpoint    string  `envconfig:"ENDPOINT"`
		SampleRatio float64 `envconfig:"SAMPLE_RATIO" default:"1"`
	} `envconfig:"OTEL"`
	S3 struct {
		APIEndpoint     string `envconfig:"API_ENDPOINT"`
		AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
		SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
		BucketName      string `envconfig:"BUCKET_NAME"`
		PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
	} `envconfig:"S3"`
	EmailJS struct {
		Endpoint   string `envconfig:"ENDPOINT" default:"https://api.emailjs.com/api/v1.0/email/send"`
		ServiceID  string `envconfig:"SERVICE_ID"`
		TemplateID string `envconfig:"TEMPLATE_ID"`
		PublicKey  string `envconfig:"PUBLIC_KEY"`
		PrivateKey string `envconfig:"PRIVATE_KEY"`
		AdminEmail string `envconfig:"ADMIN_EMAIL"`
		TimeoutSec int    `envconfig:"TIMEOUT_SEC" default:"10"`
	} `envconfig:"EMAILJS"`
}

var (
	ErrUnknownStoreDriver = errors.New("unknown store driver")
	ErrMissingJWTSecret   = errors.New("jwt access and refresh secrets are required")
	ErrMissingKafkaBroker = errors.New("kafka is enabled without brokers")
)

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains([]string{constant.StoreDriverMemory, constant.StoreDriverPostgres, constant.StoreDriverSQLite, constant.StoreDriverMongo}, c.Store.Driver) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownStoreDriver, c.Store.Driver))
	}

	if c.Kafka.Enable && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, ErrMissingKafkaBroker)
	}

	return errors.Join(errs...)
}

// ValidateSecrets reports missing signing keys. Only processes that issue or verify
// tokens need them, so it runs at server startup rather than in Load.
func (c *Config) ValidateSecrets() error {
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return ErrMissingJWTSecret
	}

	return nil
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file, using the process environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

var load = sync.OnceValues(Load)

// Get returns the process-wide configuration and exits when it cannot be loaded.
func Get() *Config {
	cfg, err := load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize configuration")
	}

	return cfg
}
