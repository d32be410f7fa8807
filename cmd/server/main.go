package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/reservio/reservio/internal/config"
	"github.com/reservio/reservio/internal/domain/reservation"
	v1 "github.com/reservio/reservio/internal/handler/v1"
	"github.com/reservio/reservio/internal/repository/memory"
	pgrepo "github.com/reservio/reservio/internal/repository/postgres"
	"github.com/reservio/reservio/internal/service"
	"github.com/reservio/reservio/pkg/clock"
	"github.com/reservio/reservio/pkg/database"
	"github.com/reservio/reservio/pkg/logger"
	"github.com/reservio/reservio/pkg/metrics"
	"github.com/reservio/reservio/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("loading config: %v", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		stdlog.Fatalf("building logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		log.Fatal("initializing tracer", zap.Error(err))
	}

	m := metrics.NewCollector("reservio")

	var repo reservation.Repository
	switch cfg.Repository.Backend {
	case config.BackendPostgres:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			log.Fatal("connecting to database", zap.Error(err))
		}
		if err := database.Migrate(db, log); err != nil {
			log.Fatal("migrating database", zap.Error(err))
		}
		repo = pgrepo.New(db)
	default:
		log.Info("using in-memory repository; reservations are lost on restart")
		repo = memory.New()
	}

	events := service.NewEventService(service.NewLogSink(log), log, m)

	policy := reservation.Policy{
		MaxDurationMinutes:          cfg.Policy.MaxDurationMinutes,
		MaxAdvanceDays:              cfg.Policy.MaxAdvanceDays,
		TimeSlotStepMinutes:         cfg.Policy.TimeSlotStepMinutes,
		MaxDailyReservationsPerUser: cfg.Policy.MaxDailyReservationsPerUser,
	}

	svc := service.NewReservationService(repo, policy, clock.System{}, events, m, log)
	router := v1.NewRouter(svc, m, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("server listening",
			zap.String("address", srv.Addr),
			zap.String("environment", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	events.Shutdown()
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("tracer shutdown", zap.Error(err))
	}
}
