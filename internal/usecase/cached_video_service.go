package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/catalog/internal/domain/model"
	"github.com/hszk-dev/catalog/internal/infrastructure/cache"
	"github.com/hszk-dev/catalog/internal/infrastructure/metrics"
	"golang.org/x/sync/singleflight"
)

// CachedVideoServiceConfig holds configuration for CachedVideoService.
type CachedVideoServiceConfig struct {
	// CacheTTL is the TTL for cached video aggregates.
	CacheTTL time.Duration
}

// DefaultCachedVideoServiceConfig returns the default configuration.
func DefaultCachedVideoServiceConfig() CachedVideoServiceConfig {
	return CachedVideoServiceConfig{
		CacheTTL: 5 * time.Minute,
	}
}

// cachedVideoService wraps VideoService with caching capabilities.
// It implements the decorator pattern to add caching without modifying the original service.
type cachedVideoService struct {
	delegate VideoService
	cache    cache.VideoCache
	sfGroup  singleflight.Group

	cacheTTL time.Duration
}

// NewCachedVideoService creates a new CachedVideoService wrapping the provided VideoService.
func NewCachedVideoService(
	delegate VideoService,
	videoCache cache.VideoCache,
	cfg CachedVideoServiceConfig,
) VideoService {
	return &cachedVideoService{
		delegate: delegate,
		cache:    videoCache,
		cacheTTL: cfg.CacheTTL,
	}
}

// CreateVideo delegates to the underlying service.
// A new id cannot be cached yet.
func (s *cachedVideoService) CreateVideo(ctx context.Context, cmd VideoCommand) (*VideoOutput, error) {
	return s.delegate.CreateVideo(ctx, cmd)
}

// UpdateVideo delegates and then invalidates the cached aggregate.
// Invalidation runs even when the update fails, since media may already have changed.
func (s *cachedVideoService) UpdateVideo(ctx context.Context, cmd UpdateVideoCommand) (*VideoOutput, error) {
	out, err := s.delegate.UpdateVideo(ctx, cmd)
	s.invalidate(ctx, cmd.ID, "update")
	return out, err
}

// DeleteVideo invalidates the cache and delegates to the underlying service.
func (s *cachedVideoService) DeleteVideo(ctx context.Context, videoID uuid.UUID) error {
	s.invalidate(ctx, videoID, "delete")
	return s.delegate.DeleteVideo(ctx, videoID)
}

// GetMedia delegates to the underlying service; raw resources are not cached.
func (s *cachedVideoService) GetMedia(ctx context.Context, videoID uuid.UUID, kind model.VideoMediaType) (*model.Resource, error) {
	return s.delegate.GetMedia(ctx, videoID, kind)
}

// GetVideo retrieves video information with caching.
// Uses singleflight to prevent cache stampede on concurrent requests for the same video.
func (s *cachedVideoService) GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	key := videoID.String()
	result, err, shared := s.sfGroup.Do(key, func() (any, error) {
		return s.getVideoWithCache(ctx, videoID)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}

	// Callers sharing a flight must not observe each other's mutations.
	return result.(*model.Video).Clone(), nil
}

// getVideoWithCache implements the cache-aside pattern.
func (s *cachedVideoService) getVideoWithCache(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	video, err := s.cache.Get(ctx, videoID)
	if err != nil {
		slog.Warn("cache get failed, falling back to database",
			"video_id", videoID,
			"error", err,
		)
	}

	if video != nil {
		return video, nil
	}

	video, err = s.delegate.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, video, s.cacheTTL); err != nil {
		slog.Warn("failed to cache video",
			"video_id", videoID,
			"error", err,
		)
	}

	return video, nil
}

func (s *cachedVideoService) invalidate(ctx context.Context, videoID uuid.UUID, op string) {
	if err := s.cache.Delete(ctx, videoID); err != nil {
		// Non-critical: the entry expires with its TTL.
		slog.Warn("failed to invalidate cache",
			"video_id", videoID,
			"operation", op,
			"error", err,
		)
	}
}
