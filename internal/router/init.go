package router

import (
	"github.com/gatherly/gatherly-api/internal/application"
	"github.com/gatherly/gatherly-api/internal/container"
	pginfra "github.com/gatherly/gatherly-api/internal/infrastructure/postgres"
	handlers "github.com/gatherly/gatherly-api/internal/interface/http"
	"github.com/gatherly/gatherly-api/internal/router/modules"
)

// InitModules builds every feature module from the container singletons and
// registers it with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	eventRepo := pginfra.NewEventRepository(pool)
	userRepo := pginfra.NewUserRepository(pool)

	eventSvc := application.NewEventService(eventRepo, container.GetGCS(), cfg.GCSBucket, logger)
	reservationSvc := application.NewReservationService(eventRepo, userRepo, container.GetRabbitPub(), logger)
	userSvc := application.NewUserService(userRepo, container.GetJWT(), container.GetRedis(), logger)

	eventHandler := handlers.NewEventHandler(eventSvc, logger)
	reservationHandler := handlers.NewReservationHandler(reservationSvc, eventSvc, logger)
	userHandler := handlers.NewUserHandler(userSvc, logger, cfg.CookieDomain, cfg.CookieSecure)

	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	r.Add(modules.NewEventModule(eventHandler, container.GetJWT()))
	r.Add(modules.NewReservationModule(reservationHandler, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
