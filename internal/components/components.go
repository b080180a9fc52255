package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"roadwatch/internal/api"
	"roadwatch/internal/config"
	"roadwatch/internal/gateway"
	"roadwatch/internal/redis"
	"roadwatch/internal/server"
	"roadwatch/internal/service"
	"roadwatch/internal/storage/postgres"
)

type GatewayComponents struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Redis      *redis.Redis
}

func InitGateway(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*GatewayComponents, error) {
	logger.Info("Initializing Redis")
	redisClient, err := redis.NewRedis(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	queue := redis.NewRPCQueue(redisClient.Client, cfg.Rpc.RequestQueue, cfg.Rpc.RequestTimeout)
	client := gateway.NewClient(queue, logger, cfg.Rpc.MaxAttempts)

	httpServer := api.NewServer(cfg, logger, client)
	logger.Info("Initialized gateway server")

	return &GatewayComponents{
		logger:     logger,
		HttpServer: httpServer,
		Redis:      redisClient,
	}, nil
}

func (c *GatewayComponents) ShutdownAll() {
	start := time.Now()

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("Gateway components shut down", slog.Duration("latency", time.Since(start)))
}

type AlertStoreComponents struct {
	logger     *slog.Logger
	Postgres   *postgres.Postgres
	Redis      *redis.Redis
	Dispatcher *server.Dispatcher
}

func InitAlertStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*AlertStoreComponents, error) {
	logger.Info("Initializing Postgres")
	storage, err := postgres.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to init postgres", slog.Any("error", err))
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	logger.Info("Initializing Redis")
	redisClient, err := redis.NewRedis(ctx, cfg, logger)
	if err != nil {
		storage.Pool.Close()
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	queue := redis.NewRPCQueue(redisClient.Client, cfg.Rpc.RequestQueue, cfg.Rpc.RequestTimeout)

	alertSvc := service.NewAlertService(storage.Alerts())
	ratingSvc := service.NewRatingService(storage.Ratings(), logger)
	svc := service.NewService(alertSvc, ratingSvc)

	dispatcher := server.NewDispatcher(queue, svc, logger, cfg.Rpc.Workers)
	logger.Info("Initialized alert store dispatcher", slog.Int("workers", cfg.Rpc.Workers))

	return &AlertStoreComponents{
		logger:     logger,
		Postgres:   storage,
		Redis:      redisClient,
		Dispatcher: dispatcher,
	}, nil
}

func (c *AlertStoreComponents) ShutdownAll() {
	start := time.Now()

	c.Postgres.Pool.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("Alert store components shut down", slog.Duration("latency", time.Since(start)))
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}
