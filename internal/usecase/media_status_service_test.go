package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hszk-dev/catalog/internal/domain/model"
	"github.com/hszk-dev/catalog/internal/domain/repository"
)

func videoWithPendingMedia(t *testing.T) *model.Video {
	t.Helper()
	spec := validCommand().spec()
	media, err := model.NewPendingAudioVideoMedia("abc", "video.mp4", "/raw/video")
	if err != nil {
		t.Fatalf("failed to build media: %v", err)
	}
	spec.VideoMedia = &media
	video, err := model.NewVideo(spec)
	if err != nil {
		t.Fatalf("failed to build video: %v", err)
	}
	video.ClearDomainEvents()
	return video
}

func TestMediaStatusService_HandleResult(t *testing.T) {
	tests := []struct {
		name          string
		status        repository.EncoderStatus
		resourceID    func(v *model.Video) string
		setup         func(v *model.Video)
		retryCount    int
		findErr       error
		updateErr     error
		wantErr       string
		wantUpdate    bool
		wantStatus    model.MediaStatus
		wantEncoded   string
		wantCacheDrop bool
	}{
		{
			name:          "processing",
			status:        repository.EncoderStatusProcessing,
			resourceID:    func(v *model.Video) string { return v.VideoMedia.ID },
			wantUpdate:    true,
			wantStatus:    model.MediaStatusProcessing,
			wantCacheDrop: true,
		},
		{
			name:          "completed",
			status:        repository.EncoderStatusCompleted,
			resourceID:    func(v *model.Video) string { return v.VideoMedia.ID },
			wantUpdate:    true,
			wantStatus:    model.MediaStatusCompleted,
			wantEncoded:   "/encoded/video",
			wantCacheDrop: true,
		},
		{
			name:       "late processing after completed is ignored",
			status:     repository.EncoderStatusProcessing,
			resourceID: func(v *model.Video) string { return v.VideoMedia.ID },
			setup: func(v *model.Video) {
				v.Completed(model.MediaTypeVideo, "/enc")
			},
			retryCount:  1,
			wantStatus:  model.MediaStatusCompleted,
			wantEncoded: "/enc",
		},
		{
			name:       "encoder error is acknowledged",
			status:     repository.EncoderStatusError,
			resourceID: func(v *model.Video) string { return v.VideoMedia.ID },
			wantStatus: model.MediaStatusPending,
		},
		{
			name:       "unknown resource is ignored",
			status:     repository.EncoderStatusCompleted,
			resourceID: func(v *model.Video) string { return "replaced" },
			wantStatus: model.MediaStatusPending,
		},
		{
			name:       "unknown video is ignored",
			status:     repository.EncoderStatusCompleted,
			resourceID: func(v *model.Video) string { return v.VideoMedia.ID },
			findErr:    repository.ErrVideoNotFound,
			wantStatus: model.MediaStatusPending,
		},
		{
			name:       "max retries exceeded is dropped",
			status:     repository.EncoderStatusCompleted,
			resourceID: func(v *model.Video) string { return v.VideoMedia.ID },
			retryCount: DefaultMaxRetries,
			wantStatus: model.MediaStatusPending,
		},
		{
			name:       "database error is retried",
			status:     repository.EncoderStatusCompleted,
			resourceID: func(v *model.Video) string { return v.VideoMedia.ID },
			findErr:    errors.New("db down"),
			wantErr:    "find video",
			wantStatus: model.MediaStatusPending,
		},
		{
			name:        "update error is retried",
			status:      repository.EncoderStatusCompleted,
			resourceID:  func(v *model.Video) string { return v.VideoMedia.ID },
			updateErr:   errors.New("db down"),
			wantErr:     "update video",
			wantUpdate:  true,
			wantStatus:  model.MediaStatusCompleted,
			wantEncoded: "/encoded/video",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			video := videoWithPendingMedia(t)
			if tt.setup != nil {
				tt.setup(video)
			}
			repo := &mockVideoRepository{
				findByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Video, error) {
					if tt.findErr != nil {
						return nil, tt.findErr
					}
					return video, nil
				},
				updateFn: func(ctx context.Context, v *model.Video) (*model.Video, error) {
					if tt.updateErr != nil {
						return nil, tt.updateErr
					}
					return v, nil
				},
			}
			videoCache := newMockVideoCache()
			videoCache.data[video.ID] = video

			svc := NewMediaStatusService(repo, videoCache, DefaultMediaStatusServiceConfig())

			err := svc.HandleResult(context.Background(), repository.EncoderResult{
				VideoID:         video.ID,
				ResourceID:      tt.resourceID(video),
				Status:          tt.status,
				EncodedLocation: "/encoded/video",
				RetryCount:      tt.retryCount,
			})

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := repo.updateCalls > 0; got != tt.wantUpdate {
				t.Errorf("update called = %v, want %v", got, tt.wantUpdate)
			}
			if video.VideoMedia.Status != tt.wantStatus {
				t.Errorf("media status = %v, want %v", video.VideoMedia.Status, tt.wantStatus)
			}
			if video.VideoMedia.EncodedLocation != tt.wantEncoded {
				t.Errorf("encoded location = %q, want %q", video.VideoMedia.EncodedLocation, tt.wantEncoded)
			}
			if dropped := !videoCache.has(video.ID); dropped != tt.wantCacheDrop {
				t.Errorf("cache invalidated = %v, want %v", dropped, tt.wantCacheDrop)
			}
		})
	}
}

func TestMediaStatusService_HandleResult_Trailer(t *testing.T) {
	spec := validCommand().spec()
	trailer, _ := model.NewPendingAudioVideoMedia("abc", "trailer.mp4", "/raw/trailer")
	spec.Trailer = &trailer
	video, err := model.NewVideo(spec)
	if err != nil {
		t.Fatalf("failed to build video: %v", err)
	}

	repo := &mockVideoRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Video, error) {
			return video, nil
		},
	}

	svc := NewMediaStatusService(repo, nil, DefaultMediaStatusServiceConfig())

	err = svc.HandleResult(context.Background(), repository.EncoderResult{
		VideoID:         video.ID,
		ResourceID:      trailer.ID,
		Status:          repository.EncoderStatusCompleted,
		EncodedLocation: "/encoded/trailer",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.updated.Trailer.Status != model.MediaStatusCompleted {
		t.Errorf("trailer status = %v", repo.updated.Trailer.Status)
	}
	if repo.updated.VideoMedia != nil {
		t.Error("video slot must stay empty")
	}
}
