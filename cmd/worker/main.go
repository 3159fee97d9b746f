package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/hszk-dev/catalog/internal/config"
	"github.com/hszk-dev/catalog/internal/domain/repository"
	"github.com/hszk-dev/catalog/internal/infrastructure/cache"
	"github.com/hszk-dev/catalog/internal/infrastructure/postgres"
	"github.com/hszk-dev/catalog/internal/infrastructure/queue"
	"github.com/hszk-dev/catalog/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	prometheus.MustRegister(pgClient.Collector())
	logger.Info("connected to PostgreSQL")

	queueCfg := queue.DefaultClientConfig(cfg.RabbitMQ.URL())
	queueCfg.EventsExchange = cfg.RabbitMQ.EventsExchange
	queueCfg.ResultsQueue = cfg.RabbitMQ.ResultsQueue
	queueCfg.Prefetch = cfg.RabbitMQ.Prefetch

	queueClient, err := queue.NewClient(ctx, queueCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	videoCache := cache.NewRedisVideoCache(redisClient)
	if err := videoCache.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("connected to Redis")

	pool := pgClient.Pool()
	relay := usecase.NewOutboxRelay(
		postgres.NewOutboxRepository(pool),
		queueClient,
		usecase.OutboxRelayConfig{
			PollInterval: cfg.Outbox.PollInterval,
			BatchSize:    cfg.Outbox.BatchSize,
		},
	)
	statusSvc := usecase.NewMediaStatusService(
		postgres.NewVideoRepository(pool),
		videoCache,
		usecase.MediaStatusServiceConfig{MaxRetries: cfg.Worker.MaxRetries},
	)

	g, gctx := errgroup.WithContext(ctx)

	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Worker.MetricsPort),
		Handler: promhttp.Handler(),
	}
	g.Go(func() error {
		logger.Info("starting metrics server", slog.Int("port", cfg.Worker.MetricsPort))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("metrics server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownTimeout)
		defer cancel()
		return metricsSrv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		logger.Info("starting outbox relay", slog.Duration("poll_interval", cfg.Outbox.PollInterval))
		return relay.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("starting encoder results consumer")
		err := queueClient.ConsumeEncoderResults(gctx, func(result repository.EncoderResult) error {
			return statusSvc.HandleResult(gctx, result)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("consumer error: %w", err)
		}
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if err != nil && ctx.Err() == nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down worker")
		select {
		case <-done:
		case <-time.After(cfg.Worker.ShutdownTimeout):
			return errors.New("worker shutdown timed out")
		}
	}

	logger.Info("worker stopped")
	return nil
}
