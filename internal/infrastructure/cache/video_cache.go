package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/catalog/internal/domain/model"
)

// VideoCache holds read copies of video aggregates without their pending events.
type VideoCache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, videoID uuid.UUID) (*model.Video, error)

	Set(ctx context.Context, video *model.Video, ttl time.Duration) error

	// Delete is a no-op for absent keys.
	Delete(ctx context.Context, videoID uuid.UUID) error
}
