package config_test

import (
	"testing"

	"umrahcrm/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Store.Driver = "memory"
	cfg.JWT.AccessSecret = "access"
	cfg.JWT.RefreshSecret = "refresh"

	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "unknown driver", mutate: func(c *config.Config) { c.Store.Driver = "cassandra" }, wantErr: config.ErrUnknownStoreDriver},
		{name: "kafka without brokers", mutate: func(c *config.Config) { c.Kafka.Enable = true }, wantErr: config.ErrMissingKafkaBroker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("JWT_ACCESS_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	t.Setenv("KAFKA_BROKERS", "b1:9092,b2:9092")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 300, cfg.Cache.TTL)
	assert.Equal(t, "5432", cfg.DB.Postgres.Write.Port)
	assert.Equal(t, "umrahcrm.events", cfg.Kafka.Topic)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "cassandra")
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	_, err := config.Load()
	assert.ErrorIs(t, err, config.ErrUnknownStoreDriver)
	assert.NotErrorIs(t, err, config.ErrMissingJWTSecret)
}

// A process without signing keys still loads, the server refuses to start later.
func TestLoad_WithoutSecrets(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.ErrorIs(t, cfg.ValidateSecrets(), config.ErrMissingJWTSecret)
}

func TestConfig_ValidateSecrets(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{name: "both set", mutate: func(*config.Config) {}},
		{name: "missing access secret", mutate: func(c *config.Config) { c.JWT.AccessSecret = "" }, wantErr: true},
		{name: "missing refresh secret", mutate: func(c *config.Config) { c.JWT.RefreshSecret = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateSecrets()
			if !tt.wantErr {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, config.ErrMissingJWTSecret)
		})
	}
}
