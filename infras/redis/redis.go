package redis

import (
	"context"
	"net"
	"time"

	"umrahcrm/config"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 3 * time.Second

// New connects to the primary node. It returns a nil client when Redis is not
// configured or not reachable, which turns caching and rate limiting off.
func New(cfg *config.Config) (*goRedis.Client, func()) {
	node := cfg.Cache.Redis.Primary
	if node.Host == "" {
		log.Warn().Msg("Redis host not configured, caching disabled")

		return nil, func() {}
	}

	client := goRedis.NewClient(&goRedis.Options{
		Addr:     net.JoinHostPort(node.Host, node.Port),
		Password: node.Password,
		DB:       node.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Str("addr", client.Options().Addr).Msg("Redis unreachable, caching disabled")

		_ = client.Close()

		return nil, func() {}
	}

	log.Info().Str("addr", client.Options().Addr).Int("db", node.DB).Msg("Connected to Redis")

	return client, func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close redis client")
		}
	}
}
