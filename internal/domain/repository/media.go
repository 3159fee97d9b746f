package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hszk-dev/catalog/internal/domain/model"
)

// MediaResourceGateway stores raw media resources keyed by video id and media kind.
type MediaResourceGateway interface {
	// StoreAudioVideo stores a video or trailer resource and returns the
	// pending-encode media describing it.
	StoreAudioVideo(ctx context.Context, videoID uuid.UUID, resource model.VideoResource) (*model.AudioVideoMedia, error)

	// StoreImage stores a banner or thumbnail resource.
	StoreImage(ctx context.Context, videoID uuid.UUID, resource model.VideoResource) (*model.ImageMedia, error)

	// GetResource fetches the stored resource of the given kind.
	// Returns ErrResourceNotFound if none is stored.
	GetResource(ctx context.Context, videoID uuid.UUID, kind model.VideoMediaType) (*model.Resource, error)

	// ClearResources deletes every resource stored for the video.
	ClearResources(ctx context.Context, videoID uuid.UUID) error
}
