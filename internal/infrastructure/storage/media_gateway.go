package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/google/uuid"

	"github.com/hszk-dev/catalog/internal/domain/model"
	"github.com/hszk-dev/catalog/internal/domain/repository"
	"github.com/hszk-dev/catalog/internal/infrastructure/metrics"
)

const (
	metaChecksum = "checksum"
	metaName     = "name"
)

// MediaGateway stores raw video resources in object storage.
// Each resource lives under videoId-<id>/type-<KIND>, so storing the same
// kind twice replaces the previous object.
type MediaGateway struct {
	storage repository.ObjectStorage
}

var _ repository.MediaResourceGateway = (*MediaGateway)(nil)

// NewMediaGateway creates a new MediaGateway.
func NewMediaGateway(storage repository.ObjectStorage) *MediaGateway {
	return &MediaGateway{storage: storage}
}

// StoreAudioVideo uploads a video or trailer and returns it as pending encode.
func (g *MediaGateway) StoreAudioVideo(ctx context.Context, videoID uuid.UUID, resource model.VideoResource) (*model.AudioVideoMedia, error) {
	if !resource.Type.IsAudioVideo() {
		return nil, fmt.Errorf("media type %s is not audio/video", resource.Type)
	}

	key, err := g.store(ctx, videoID, resource)
	if err != nil {
		return nil, err
	}

	media, err := model.NewPendingAudioVideoMedia(resource.Resource.Checksum, resource.Resource.Name, key)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s media: %w", resource.Type, err)
	}
	return &media, nil
}

// StoreImage uploads a banner or thumbnail.
func (g *MediaGateway) StoreImage(ctx context.Context, videoID uuid.UUID, resource model.VideoResource) (*model.ImageMedia, error) {
	if resource.Type.IsAudioVideo() || !resource.Type.IsValid() {
		return nil, fmt.Errorf("media type %s is not an image", resource.Type)
	}

	key, err := g.store(ctx, videoID, resource)
	if err != nil {
		return nil, err
	}

	media, err := model.NewImageMediaWithGeneratedID(resource.Resource.Checksum, resource.Resource.Name, key)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s media: %w", resource.Type, err)
	}
	return &media, nil
}

// GetResource reads back the stored resource of the given kind.
func (g *MediaGateway) GetResource(ctx context.Context, videoID uuid.UUID, kind model.VideoMediaType) (*model.Resource, error) {
	reader, info, err := g.storage.Download(ctx, MediaKey(videoID, kind))
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, repository.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to download %s: %w", kind, err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}

	name, err := url.QueryUnescape(info.Metadata[metaName])
	if err != nil {
		name = info.Metadata[metaName]
	}

	return &model.Resource{
		Checksum:    info.Metadata[metaChecksum],
		Content:     content,
		ContentType: info.ContentType,
		Name:        name,
	}, nil
}

// ClearResources deletes every object stored for the video.
// Deletion continues past individual failures; all errors are returned joined.
func (g *MediaGateway) ClearResources(ctx context.Context, videoID uuid.UUID) error {
	objects, err := g.storage.List(ctx, mediaPrefix(videoID))
	if err != nil {
		return fmt.Errorf("failed to list resources of video %s: %w", videoID, err)
	}

	var errs []error
	for _, obj := range objects {
		if err := g.storage.Delete(ctx, obj.Key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (g *MediaGateway) store(ctx context.Context, videoID uuid.UUID, resource model.VideoResource) (string, error) {
	key := MediaKey(videoID, resource.Type)
	res := resource.Resource

	err := g.storage.Upload(ctx, key, bytes.NewReader(res.Content), int64(len(res.Content)), repository.UploadOptions{
		ContentType: res.ContentType,
		Metadata: map[string]string{
			metaChecksum: res.Checksum,
			// object metadata travels as HTTP headers
			metaName: url.QueryEscape(res.Name),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to store %s: %w", resource.Type, err)
	}

	metrics.MediaStoredTotal.WithLabelValues(resource.Type.String()).Inc()
	return key, nil
}

// MediaKey returns the object key of a video resource.
func MediaKey(videoID uuid.UUID, kind model.VideoMediaType) string {
	return fmt.Sprintf("%stype-%s", mediaPrefix(videoID), kind)
}

func mediaPrefix(videoID uuid.UUID) string {
	return fmt.Sprintf("videoId-%s/", videoID)
}
