package logger_test

import (
	"bytes"
	"errors"
	"testing"

	"umrahcrm/config"
	"umrahcrm/shared/logger"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func restore(t *testing.T) {
	t.Helper()

	original := log.Logger
	level := zerolog.GlobalLevel()

	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(level)
	})
}

func TestInitLogger(t *testing.T) {
	restore(t)

	logger.InitLogger()

	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
	assert.NotNil(t, zerolog.ErrorStackMarshaler)
}

func TestErrorWithStack(t *testing.T) {
	restore(t)

	logger.InitLogger()

	var buf bytes.Buffer

	log.Logger = zerolog.New(&buf)

	logger.ErrorWithStack(errors.New("store offline"))

	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "store offline")
	assert.Contains(t, buf.String(), `"stack"`)
}

func TestSetLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		env   string
		want  zerolog.Level
	}{
		{name: "explicit level", level: "warn", env: "development", want: zerolog.WarnLevel},
		{name: "unknown level", level: "loud", env: "development", want: zerolog.InfoLevel},
		{name: "empty level", level: "", env: "production", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore(t)

			var cfg config.Config

			cfg.Server.LogLevel = tt.level
			cfg.Server.Env = tt.env

			logger.SetLogLevel(&cfg)

			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}
