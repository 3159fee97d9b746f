package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hszk-dev/catalog/internal/domain/model"
	"github.com/hszk-dev/catalog/internal/domain/repository"
	"github.com/hszk-dev/catalog/internal/infrastructure/cache"
	"github.com/hszk-dev/catalog/internal/infrastructure/metrics"
)

const (
	// DefaultMaxRetries is the default maximum number of retry attempts before a result is dropped.
	DefaultMaxRetries = 3
)

// MediaStatusServiceConfig holds configuration for MediaStatusService.
type MediaStatusServiceConfig struct {
	// MaxRetries is the maximum number of retry attempts before dropping a result.
	MaxRetries int
}

// DefaultMediaStatusServiceConfig returns the default configuration.
func DefaultMediaStatusServiceConfig() MediaStatusServiceConfig {
	return MediaStatusServiceConfig{
		MaxRetries: DefaultMaxRetries,
	}
}

// MediaStatusService applies encoder results to the audio/video media of a video.
type MediaStatusService interface {
	// HandleResult processes an encoder result from the message queue.
	// Returns nil when the result was applied or permanently ignored.
	// Returns error for transient failures that should trigger a retry.
	HandleResult(ctx context.Context, result repository.EncoderResult) error
}

type mediaStatusService struct {
	repo  repository.VideoRepository
	cache cache.VideoCache

	maxRetries int
}

// NewMediaStatusService creates a new MediaStatusService instance.
// videoCache may be nil when no read cache is deployed.
func NewMediaStatusService(
	repo repository.VideoRepository,
	videoCache cache.VideoCache,
	cfg MediaStatusServiceConfig,
) MediaStatusService {
	return &mediaStatusService{
		repo:       repo,
		cache:      videoCache,
		maxRetries: cfg.MaxRetries,
	}
}

// HandleResult moves the matching media to PROCESSING or COMPLETED.
func (s *mediaStatusService) HandleResult(ctx context.Context, result repository.EncoderResult) error {
	if result.RetryCount >= s.maxRetries {
		slog.Error("dropping encoder result after max retries",
			"video_id", result.VideoID,
			"resource_id", result.ResourceID,
			"retry_count", result.RetryCount,
		)
		s.record(result, metrics.EncoderOutcomeDropped)
		return nil
	}

	if result.Status == repository.EncoderStatusError {
		slog.Error("encoder reported an error",
			"video_id", result.VideoID,
			"resource_id", result.ResourceID,
			"message", result.Message,
		)
		s.record(result, metrics.EncoderOutcomeIgnored)
		return nil
	}

	if result.Status != repository.EncoderStatusProcessing && result.Status != repository.EncoderStatusCompleted {
		slog.Warn("ignoring encoder result with unknown status",
			"video_id", result.VideoID,
			"status", result.Status,
		)
		s.record(result, metrics.EncoderOutcomeIgnored)
		return nil
	}

	video, err := s.repo.FindByID(ctx, result.VideoID)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			slog.Warn("encoder result for unknown video", "video_id", result.VideoID)
			s.record(result, metrics.EncoderOutcomeIgnored)
			return nil
		}
		s.record(result, metrics.EncoderOutcomeRetry)
		return fmt.Errorf("find video: %w", err)
	}

	kind, ok := video.MediaByResourceID(result.ResourceID)
	if !ok {
		// The media was replaced after encoding started.
		slog.Warn("encoder result for unknown resource",
			"video_id", result.VideoID,
			"resource_id", result.ResourceID,
		)
		s.record(result, metrics.EncoderOutcomeIgnored)
		return nil
	}

	// Retries are republished at the back of the queue, so a PROCESSING
	// result can arrive after COMPLETED.
	if result.Status == repository.EncoderStatusProcessing &&
		slotMedia(video, kind).Status == model.MediaStatusCompleted {
		slog.Warn("ignoring stale processing result",
			"video_id", result.VideoID,
			"resource_id", result.ResourceID,
			"retry_count", result.RetryCount,
		)
		s.record(result, metrics.EncoderOutcomeIgnored)
		return nil
	}

	if result.Status == repository.EncoderStatusCompleted {
		video.Completed(kind, result.EncodedLocation)
	} else {
		video.Processing(kind)
	}

	if _, err := s.repo.Update(ctx, video); err != nil {
		s.record(result, metrics.EncoderOutcomeRetry)
		return fmt.Errorf("update video: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, video.ID); err != nil {
			slog.Warn("failed to invalidate cache after media status change",
				"video_id", video.ID,
				"error", err,
			)
		}
	}

	s.record(result, metrics.EncoderOutcomeApplied)
	return nil
}

func slotMedia(video *model.Video, kind model.VideoMediaType) *model.AudioVideoMedia {
	if kind == model.MediaTypeTrailer {
		return video.Trailer
	}
	return video.VideoMedia
}

func (s *mediaStatusService) record(result repository.EncoderResult, outcome string) {
	metrics.EncoderResultsTotal.WithLabelValues(string(result.Status), outcome).Inc()
}
