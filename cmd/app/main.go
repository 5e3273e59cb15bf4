package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"umrahcrm/config"
	"umrahcrm/di"
	"umrahcrm/shared/logger"
	"umrahcrm/shared/timezone"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const otelFlushTimeout = 5 * time.Second

// @title Umrah CRM API
// @version 1.0
// @description Leads, quotations, vouchers and support tickets for Umrah consultants.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if err := cfg.ValidateSecrets(); err != nil {
		log.Fatal().Err(err).Msg("Refusing to start")
	}

	timezone.Init(cfg.App.Timezone)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}

	if err = app.Users.EnsureAdmin(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to provision the admin account")
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error { return app.HTTP.Serve(groupCtx) })
	group.Go(func() error { return app.Notifier.Run(groupCtx) })

	err = group.Wait()
	if err != nil {
		log.Error().Err(err).Msg("Service stopped with error")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), otelFlushTimeout)
	defer cancel()

	if shutdownErr := app.Otel.Shutdown(flushCtx); shutdownErr != nil {
		log.Error().Err(shutdownErr).Msg("Failed to flush traces")
	}

	cleanup()

	if err != nil {
		os.Exit(1) //nolint:gocritic
	}
}
