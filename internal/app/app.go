package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go.uber.org/zap"

	transport "service-schedule/internal/http"
	"service-schedule/internal/http/handlers"
	"service-schedule/internal/repository"
	"service-schedule/internal/service"
)

type App struct {
	handler         http.Handler
	scheduleService *service.ScheduleService
}

func New(db *sql.DB, identityBaseURL string, logger *zap.Logger) *App {
	txManager := repository.NewPostgresTxManager(db)
	identityClient := service.NewIdentityHTTPClient(identityBaseURL, service.DefaultIdentityHTTPClient())
	scheduleService := service.NewScheduleService(txManager, logger)

	scheduleHandler := handlers.NewScheduleHandler(scheduleService, identityClient)
	substitutionHandler := handlers.NewSubstitutionHandler(scheduleService, identityClient)
	router := transport.NewRouter(scheduleHandler, substitutionHandler)

	return &App{handler: router.Handler(), scheduleService: scheduleService}
}

func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) EmitDailyDigestIfDue(ctx context.Context, now time.Time) error {
	return a.scheduleService.EmitDailyDigestIfDue(ctx, now)
}

func (a *App) SeedDemoWeek(ctx context.Context) error {
	return a.scheduleService.SeedDemoWeek(ctx)
}
