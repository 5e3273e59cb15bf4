//go:build wireinject
// +build wireinject

package di

import (
	"umrahcrm/config"
	"umrahcrm/infras/jwt"
	"umrahcrm/infras/mailer"
	"umrahcrm/infras/otel"
	"umrahcrm/infras/redis"
	"umrahcrm/infras/s3"
	authService "umrahcrm/internal/domains/auth/service"
	leadRepository "umrahcrm/internal/domains/lead/repository"
	leadService "umrahcrm/internal/domains/lead/service"
	ticketRepository "umrahcrm/internal/domains/ticket/repository"
	ticketService "umrahcrm/internal/domains/ticket/service"
	userRepository "umrahcrm/internal/domains/user/repository"
	userService "umrahcrm/internal/domains/user/service"
	"umrahcrm/internal/events"
	authHandler "umrahcrm/internal/handlers/auth"
	leadHandler "umrahcrm/internal/handlers/lead"
	ticketHandler "umrahcrm/internal/handlers/ticket"
	userHandler "umrahcrm/internal/handlers/user"
	"umrahcrm/permissions"
	"umrahcrm/shared/cache"
	"umrahcrm/shared/store"
	"umrahcrm/transport/http"
	"umrahcrm/transport/http/middleware"
	"umrahcrm/transport/http/router"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	mailer.New,
	provideKafka,
	store.Open,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	events.NewPublisher,
	events.NewNotifier,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
	userService.New,
)

var leadDomain = wire.NewSet(
	leadRepository.New,
	leadService.New,
)

var ticketDomain = wire.NewSet(
	ticketRepository.New,
	ticketService.New,
)

var domains = wire.NewSet(
	authDomain,
	leadDomain,
	ticketDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	leadHandler.New,
	ticketHandler.New,
	router.New,
)

func InitializeService() (*App, func(), error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return nil, nil, nil
}
