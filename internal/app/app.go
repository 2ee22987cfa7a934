package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chargeslot/internal/config"
	"chargeslot/internal/db"
	httpserver "chargeslot/internal/http"
	"chargeslot/internal/http/handlers"
	"chargeslot/internal/http/middleware"
	"chargeslot/internal/jobs"
	redisstore "chargeslot/internal/redis"
	"chargeslot/internal/repository"
	"chargeslot/internal/service"
	"chargeslot/internal/ws"
)

// App wires booking-service dependencies.
type App struct {
	server      *httpserver.Server
	scheduler   *jobs.Scheduler
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := redisstore.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	stationRepo := repository.NewStationRepository(sqlDB)
	ledgerRepo := repository.NewLedgerRepository(sqlDB)
	bookingRepo := repository.NewBookingRepository(sqlDB)

	stationCache := redisstore.NewStationCache(redisClient, cfg.SnapshotTTL())
	eventHub := ws.NewHub(logger)

	reservations := service.NewReservationService(
		stationRepo,
		ledgerRepo,
		bookingRepo,
		stationCache,
		eventHub,
		logger,
	)

	scheduler, err := jobs.NewScheduler(reservations, jobs.Specs{
		AutoComplete: cfg.Jobs.AutoCompleteSpec,
		StalePending: cfg.Jobs.StalePendingSpec,
		Reconcile:    cfg.Jobs.ReconcileSpec,
	}, logger)
	if err != nil {
		redisClient.Close()
		sqlDB.Close()
		return nil, err
	}

	lifecycleHandler := handlers.NewLifecycleHandler(reservations, logger)

	routes := httpserver.Routes{
		Auth:            middleware.Auth(cfg.Auth.JWTSecret),
		Reserve:         handlers.NewReserveHandler(reservations, logger),
		ListBookings:    handlers.NewListBookingsHandler(reservations),
		GetBooking:      handlers.NewGetBookingHandler(reservations),
		CancelBooking:   handlers.NewCancelBookingHandler(reservations, logger),
		ListStations:    handlers.NewListStationsHandler(reservations),
		GetStation:      handlers.NewGetStationHandler(reservations),
		ConfirmBooking:  lifecycleHandler.HandleConfirm,
		StartBooking:    lifecycleHandler.HandleStart,
		CompleteBooking: lifecycleHandler.HandleComplete,
		Events:          eventHub.ServeEvents,
		Health:          handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		scheduler:   scheduler,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts the scheduler and the HTTP server.
func (a *App) Run(ctx context.Context) error {
	a.scheduler.Start()
	defer a.scheduler.Stop()
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
