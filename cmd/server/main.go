package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/wildcloud/starter-api/internal/api"
	"github.com/wildcloud/starter-api/internal/infrastructure/db/postgres"
	"github.com/wildcloud/starter-api/internal/infrastructure/db/redis"
	"github.com/wildcloud/starter-api/internal/infrastructure/storage"
	"github.com/wildcloud/starter-api/internal/pkg/config"
	"github.com/wildcloud/starter-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer db.Close()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer rdb.Close()

	store, err := storage.NewS3Store(ctx, storage.Config{
		Endpoint:     cfg.S3.Endpoint,
		Region:       cfg.S3.Region,
		Bucket:       cfg.S3.Bucket,
		AccessKey:    cfg.S3.AccessKey,
		SecretKey:    cfg.S3.SecretKey,
		PublicDomain: cfg.S3.PublicDomain,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("object store init failed")
	}

	e := api.NewRouter(db, rdb, store, cfg, log)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := e.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Info().Err(err).Msg("server stopped")
	}
}
