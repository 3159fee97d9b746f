package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	_ "go.uber.org/automaxprocs"

	"github.com/hszk-dev/catalog/internal/api/handler"
	"github.com/hszk-dev/catalog/internal/api/middleware"
	"github.com/hszk-dev/catalog/internal/config"
	"github.com/hszk-dev/catalog/internal/infrastructure/cache"
	"github.com/hszk-dev/catalog/internal/infrastructure/postgres"
	"github.com/hszk-dev/catalog/internal/infrastructure/storage"
	"github.com/hszk-dev/catalog/internal/usecase"
	"github.com/hszk-dev/catalog/migrations"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

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

	if cfg.Database.AutoMigrate {
		if err := pgClient.Migrate(ctx, migrations.FS); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	storageClient, err := storage.NewClient(ctx, storage.ClientConfig{
		Endpoint:  cfg.MinIO.Endpoint,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		UseSSL:    cfg.MinIO.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MinIO: %w", err)
	}
	logger.Info("connected to MinIO", slog.String("bucket", storageClient.Bucket()))

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
	videoSvc := usecase.NewCachedVideoService(
		usecase.NewVideoService(
			postgres.NewVideoRepository(pool),
			storage.NewMediaGateway(storageClient),
			usecase.References{
				Categories:  postgres.NewCategoryRepository(pool),
				Genres:      postgres.NewGenreRepository(pool),
				CastMembers: postgres.NewCastMemberRepository(pool),
			},
		),
		videoCache,
		usecase.CachedVideoServiceConfig{CacheTTL: cfg.Cache.VideoTTL},
	)

	videoHandler := handler.NewVideoHandler(videoSvc, handler.VideoHandlerConfig{
		MaxUploadSize: cfg.Server.MaxUploadSize,
		MaxMemory:     handler.DefaultVideoHandlerConfig().MaxMemory,
	})
	healthHandler := handler.NewHealthHandler(map[string]handler.Pinger{
		"postgres": pgClient,
		"minio":    storageClient,
		"redis":    videoCache,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      setupRouter(logger, videoHandler, healthHandler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func setupRouter(logger *slog.Logger, videos *handler.VideoHandler, health *handler.HealthHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/health", health.Live)
	r.Get("/health/ready", health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", videos.Routes)

	return r
}
