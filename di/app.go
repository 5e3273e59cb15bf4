package di

import (
	"umrahcrm/config"
	"umrahcrm/infras/kafka"
	"umrahcrm/infras/otel"
	userService "umrahcrm/internal/domains/user/service"
	"umrahcrm/internal/events"
	"umrahcrm/transport/http"

	"github.com/rs/zerolog/log"
)

// App bundles what the entrypoints run: the HTTP server, the event consumer and the tracer to flush on exit.
type App struct {
	HTTP     *http.HTTP
	Notifier *events.Notifier
	Users    userService.User
	Otel     otel.Otel
}

func provideKafka(cfg *config.Config) (kafka.Client, func()) {
	if !cfg.Kafka.Enable {
		log.Warn().Msg("Kafka is disabled, domain events are dropped")

		return nil, func() {}
	}

	client := kafka.New(cfg)

	return client, func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close kafka client")
		}
	}
}
