package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/T-manDon/alx-files-manager/internal/cache"
	"github.com/T-manDon/alx-files-manager/internal/config"
	"github.com/T-manDon/alx-files-manager/internal/database"
	"github.com/T-manDon/alx-files-manager/internal/handlers"
	"github.com/T-manDon/alx-files-manager/internal/jobs"
	"github.com/T-manDon/alx-files-manager/internal/log"
	"github.com/T-manDon/alx-files-manager/internal/queue"
	"github.com/T-manDon/alx-files-manager/internal/repository"
	"github.com/T-manDon/alx-files-manager/internal/security"
	"github.com/T-manDon/alx-files-manager/internal/server"
	"github.com/T-manDon/alx-files-manager/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level)

	ctx := context.Background()

	db, err := database.NewMongoDatabase(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect mongo")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	userRepo := repository.NewUserRepository(db)
	fileRepo := repository.NewFileRepository(db)
	tokens := security.NewTokenStore(redisClient, cfg.Auth.TokenTTL)
	producer := queue.NewProducer(redisClient, cfg.Queue.Stream)

	authService := service.NewAuthService(userRepo, tokens, producer, logger)
	fileService := service.NewFileService(fileRepo, producer, cfg.Storage.Root, logger)

	handlerSet := handlers.NewHandlerSet(logger, authService, fileService, userRepo, fileRepo, db, redisClient)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	var scheduler *jobs.Scheduler
	if cfg.Sweep.Enabled {
		scheduler = jobs.NewScheduler(fileRepo, producer, logger)
		if err := scheduler.Start(cfg.Sweep.Schedule); err != nil {
			logger.Error().Err(err).Msg("scheduler start failed")
		}
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	if err := db.Client().Disconnect(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("mongo disconnect error")
	}
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
