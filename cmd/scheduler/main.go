package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/vehicle-loan-engine/internal/cache"
	"github.com/segyhp/vehicle-loan-engine/internal/config"
	"github.com/segyhp/vehicle-loan-engine/internal/events"
	"github.com/segyhp/vehicle-loan-engine/internal/logger"
	"github.com/segyhp/vehicle-loan-engine/internal/repository"
	"github.com/segyhp/vehicle-loan-engine/internal/scheduler"
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
	log.Info("Starting overdue scheduler...")

	ctx := context.Background()

	store, err := repository.Open(ctx, repository.Options{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LockTimeout:     cfg.Database.LockTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer store.Close()

	opts := []service.Option{service.WithLogger(log)}
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
	}

	sweeper := service.NewOverdueSweepService(store, cfg.LateFeePolicy(), opts...)

	s, err := scheduler.New(cfg.Scheduler.OverdueCron, cfg.Location(), sweeper, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to schedule overdue sweep")
	}

	s.Start()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	stopCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	s.Stop(stopCtx)
	log.Info("Scheduler stopped")
}
