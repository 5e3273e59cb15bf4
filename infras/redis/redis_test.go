package redis_test

import (
	"testing"

	"umrahcrm/config"
	"umrahcrm/infras/redis"

	"github.com/stretchr/testify/assert"
)

func TestNew_Disabled(t *testing.T) {
	tests := []struct {
		name string
		host string
		port string
	}{
		{name: "no host", host: ""},
		{name: "unreachable", host: "127.0.0.1", port: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Cache.Redis.Primary.Host = tt.host
			cfg.Cache.Redis.Primary.Port = tt.port

			client, cleanup := redis.New(cfg)
			defer cleanup()

			assert.Nil(t, client)
		})
	}
}
