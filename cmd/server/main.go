package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segyhp/vehicle-loan-engine/internal/cache"
	"github.com/segyhp/vehicle-loan-engine/internal/config"
	"github.com/segyhp/vehicle-loan-engine/internal/events"
	"github.com/segyhp/vehicle-loan-engine/internal/handler"
	"github.com/segyhp/vehicle-loan-engine/internal/logger"
	"github.com/segyhp/vehicle-loan-engine/internal/middleware"
	"github.com/segyhp/vehicle-loan-engine/internal/repository"
	"github.com/segyhp/vehicle-loan-engine/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := logger.New(cfg.Logging)

	ctx := context.Background()

	// Initialize database
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer store.Close()

	opts := []service.Option{
		service.WithLogger(log),
		service.WithClock(func() time.Time { return time.Now().In(cfg.Location()) }),
	}

	// Redis backs the loan view cache and the event stream; both are optional
	checks := map[string]handler.Pinger{"database": store}
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisClient.Close()

		opts = append(opts,
			service.WithCache(cache.NewLoanCache(redisClient, cfg.Redis.CacheTTL)),
			service.WithEvents(events.NewPublisher(redisClient, cfg.Redis.Stream)),
		)
		checks["redis"] = redisPinger(redisClient)
	}

	lateFees := cfg.LateFeePolicy()
	threshold := cfg.Business.SeizureThresholdDays
	queries := service.NewLoanQueryService(store, threshold, opts...)

	router := handler.NewRouter(handler.Handlers{
		Loans: handler.NewLoanHandler(
			service.NewOriginationService(store, cfg.Rules(), opts...),
			service.NewPaymentService(store, lateFees, opts...),
			service.NewForeclosureService(store, opts...),
			queries,
			log,
		),
		Seizures:  handler.NewSeizureHandler(service.NewSeizureService(store, threshold, opts...), queries, log),
		Customers: handler.NewCustomerHandler(service.NewCustomerService(store, opts...), log),
		Reference: handler.NewReferenceHandler(service.NewReferenceService(store, opts...), log),
		Reports:   handler.NewReportHandler(service.NewReportService(store, opts...), service.NewOverdueSweepService(store, lateFees, opts...), log),
		Health:    handler.NewHealthHandler(cfg.Health.Timeout, checks),
	}, middleware.NewAuthenticator(cfg.Auth), log)

	if !cfg.Auth.Enabled {
		log.Warn("Authentication is disabled, every request runs as admin")
	}

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server exited")
}

func openStore(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	store, err := repository.Open(ctx, repository.Options{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LockTimeout:     cfg.Database.LockTimeout,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
	}
	return store, nil
}

func redisPinger(client *redis.Client) handler.PingFunc {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
