package handler

import (
	"net/http"
	"sync"

	"umrahcrm/config"
	"umrahcrm/di"
	"umrahcrm/shared/logger"
	"umrahcrm/shared/timezone"
	"umrahcrm/transport/http/response"

	"github.com/rs/zerolog/log"
)

var (
	app     *di.App
	initErr error
	once    sync.Once
)

// Handler serves the API from a serverless function. Connections are kept warm across invocations.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		if initErr = cfg.ValidateSecrets(); initErr != nil {
			return
		}

		timezone.Init(cfg.App.Timezone)

		app, _, initErr = di.InitializeService()
		if initErr != nil {
			return
		}

		if err := app.Users.EnsureAdmin(r.Context()); err != nil {
			log.Error().Err(err).Msg("Failed to provision the admin account")
		}
	})

	if initErr != nil {
		log.Error().Err(initErr).Msg("Failed to initialize service")
		response.WithUnhealthy(w)

		return
	}

	app.HTTP.ServeHTTP(w, r)
}
