package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/catalog/internal/domain/model"
)

// VideoRepository defines the interface for video persistence operations.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
type VideoRepository interface {
	// Create persists a new video aggregate, including its associations and media.
	// Pending domain events are handed off atomically with the write; the returned
	// video has none left.
	// Returns ErrDuplicateVideo if the video already exists.
	Create(ctx context.Context, video *model.Video) (*model.Video, error)

	// Update replaces the durable state of an existing video.
	// Returns ErrVideoNotFound if the video does not exist.
	Update(ctx context.Context, video *model.Video) (*model.Video, error)

	// FindByID retrieves a video by its unique identifier.
	// Returns nil and ErrVideoNotFound if the video does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Video, error)

	// DeleteByID removes a video. Deleting an unknown id is not an error.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
