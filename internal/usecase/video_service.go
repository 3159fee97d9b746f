package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/hszk-dev/catalog/internal/domain/model"
	"github.com/hszk-dev/catalog/internal/domain/repository"
	"github.com/hszk-dev/catalog/internal/infrastructure/metrics"
)

// VideoService defines the interface for video business logic operations.
type VideoService interface {
	// CreateVideo validates the command, checks references, stores the media
	// resources and persists a new video. Resources stored for a video that
	// could not be persisted are cleared.
	CreateVideo(ctx context.Context, cmd VideoCommand) (*VideoOutput, error)

	// UpdateVideo replaces every caller-controlled field of an existing video.
	// Previously stored resources are never cleared on failure.
	UpdateVideo(ctx context.Context, cmd UpdateVideoCommand) (*VideoOutput, error)

	// GetVideo retrieves video information by ID.
	GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error)

	// DeleteVideo removes a video and its stored resources. Unknown ids are ignored.
	DeleteVideo(ctx context.Context, videoID uuid.UUID) error

	// GetMedia returns the raw resource stored for the given media kind.
	GetMedia(ctx context.Context, videoID uuid.UUID, kind model.VideoMediaType) (*model.Resource, error)
}

// References groups the existence checkers of the aggregates a video points to.
type References struct {
	Categories  repository.CategoryRepository
	Genres      repository.GenreRepository
	CastMembers repository.CastMemberRepository
}

type videoService struct {
	repo  repository.VideoRepository
	media repository.MediaResourceGateway
	refs  References
}

// NewVideoService creates a new VideoService instance.
func NewVideoService(
	repo repository.VideoRepository,
	media repository.MediaResourceGateway,
	refs References,
) VideoService {
	return &videoService{
		repo:  repo,
		media: media,
		refs:  refs,
	}
}

// CreateVideo runs validate, check references, store media, persist.
func (s *videoService) CreateVideo(ctx context.Context, cmd VideoCommand) (*VideoOutput, error) {
	out, err := s.createVideo(ctx, cmd)
	recordCommand(metrics.CommandCreate, err)
	return out, err
}

func (s *videoService) createVideo(ctx context.Context, cmd VideoCommand) (*VideoOutput, error) {
	spec := cmd.spec()

	video, err := model.NewVideo(spec)
	if err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, spec); err != nil {
		return nil, err
	}

	if err := s.persistNew(ctx, video, cmd); err != nil {
		internal := newInternalError(err, "An error on create video was observed [videoId: %s]", video.ID)
		s.compensate(ctx, video.ID)
		return nil, internal
	}

	return &VideoOutput{ID: video.ID}, nil
}

func (s *videoService) persistNew(ctx context.Context, video *model.Video, cmd VideoCommand) error {
	for _, res := range cmd.resources() {
		if err := s.storeAndConfigure(ctx, video, res); err != nil {
			return err
		}
	}

	if _, err := s.repo.Create(ctx, video); err != nil {
		return fmt.Errorf("create video: %w", err)
	}
	return nil
}

func (s *videoService) storeAndConfigure(ctx context.Context, video *model.Video, res model.VideoResource) error {
	if res.Type.IsAudioVideo() {
		m, err := s.media.StoreAudioVideo(ctx, video.ID, res)
		if err != nil {
			return fmt.Errorf("store %s: %w", res.Type, err)
		}
		if res.Type == model.MediaTypeTrailer {
			video.ConfigureTrailer(m)
		} else {
			video.ConfigureVideo(m)
		}
		return nil
	}

	m, err := s.media.StoreImage(ctx, video.ID, res)
	if err != nil {
		return fmt.Errorf("store %s: %w", res.Type, err)
	}
	switch res.Type {
	case model.MediaTypeBanner:
		video.ConfigureBanner(m)
	case model.MediaTypeThumbnail:
		video.ConfigureThumbnail(m)
	case model.MediaTypeThumbnailHalf:
		video.ConfigureThumbnailHalf(m)
	}
	return nil
}

// compensate clears every resource stored for a video that was never persisted.
// A cleanup failure is logged; the caller still sees the original error.
func (s *videoService) compensate(ctx context.Context, videoID uuid.UUID) {
	if err := s.media.ClearResources(ctx, videoID); err != nil {
		metrics.CompensationsTotal.WithLabelValues(metrics.StatusError).Inc()
		slog.Error("failed to clear resources after create failure",
			"video_id", videoID,
			"error", err,
		)
		return
	}
	metrics.CompensationsTotal.WithLabelValues(metrics.StatusSuccess).Inc()
}

// UpdateVideo runs validate, load, check references, store media, persist.
func (s *videoService) UpdateVideo(ctx context.Context, cmd UpdateVideoCommand) (*VideoOutput, error) {
	out, err := s.updateVideo(ctx, cmd)
	recordCommand(metrics.CommandUpdate, err)
	return out, err
}

func (s *videoService) updateVideo(ctx context.Context, cmd UpdateVideoCommand) (*VideoOutput, error) {
	spec := cmd.spec()
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.findVideo(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, spec); err != nil {
		return nil, err
	}

	video := existing.Clone()
	if err := s.applyUpdate(ctx, video, spec, cmd.VideoCommand); err != nil {
		if isDomainError(err) {
			return nil, err
		}
		// Deleted between load and write.
		if errors.Is(err, repository.ErrVideoNotFound) {
			return nil, newVideoNotFound(video.ID)
		}
		return nil, newInternalError(err, "An error on update video was observed [videoId: %s]", video.ID)
	}

	return &VideoOutput{ID: video.ID}, nil
}

func (s *videoService) applyUpdate(ctx context.Context, video *model.Video, spec model.VideoSpec, cmd VideoCommand) error {
	for _, res := range cmd.resources() {
		if err := s.storeIntoSpec(ctx, video.ID, res, &spec); err != nil {
			return err
		}
	}

	if err := video.Update(spec); err != nil {
		return err
	}

	if _, err := s.repo.Update(ctx, video); err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	return nil
}

func (s *videoService) storeIntoSpec(ctx context.Context, videoID uuid.UUID, res model.VideoResource, spec *model.VideoSpec) error {
	if res.Type.IsAudioVideo() {
		m, err := s.media.StoreAudioVideo(ctx, videoID, res)
		if err != nil {
			return fmt.Errorf("store %s: %w", res.Type, err)
		}
		if res.Type == model.MediaTypeTrailer {
			spec.Trailer = m
		} else {
			spec.VideoMedia = m
		}
		return nil
	}

	m, err := s.media.StoreImage(ctx, videoID, res)
	if err != nil {
		return fmt.Errorf("store %s: %w", res.Type, err)
	}
	switch res.Type {
	case model.MediaTypeBanner:
		spec.Banner = m
	case model.MediaTypeThumbnail:
		spec.Thumbnail = m
	case model.MediaTypeThumbnailHalf:
		spec.ThumbnailHalf = m
	}
	return nil
}

// GetVideo retrieves video information by ID.
func (s *videoService) GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	return s.findVideo(ctx, videoID)
}

// DeleteVideo removes the video row first so a failed cleanup never leaves a
// video pointing at missing resources.
func (s *videoService) DeleteVideo(ctx context.Context, videoID uuid.UUID) error {
	if err := s.repo.DeleteByID(ctx, videoID); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if err := s.media.ClearResources(ctx, videoID); err != nil {
		return fmt.Errorf("clear resources: %w", err)
	}
	return nil
}

// GetMedia returns the stored resource of the given kind.
func (s *videoService) GetMedia(ctx context.Context, videoID uuid.UUID, kind model.VideoMediaType) (*model.Resource, error) {
	res, err := s.media.GetResource(ctx, videoID, kind)
	if err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			return nil, &NotFoundError{
				Entity: "Media",
				ID:     fmt.Sprintf("%s/%s", videoID, kind),
				Err:    err,
			}
		}
		return nil, fmt.Errorf("get resource: %w", err)
	}
	return res, nil
}

func (s *videoService) findVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	video, err := s.repo.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return nil, newVideoNotFound(videoID)
		}
		return nil, fmt.Errorf("find video: %w", err)
	}
	return video, nil
}

// checkReferences asks every checker about its requested ids, even when an
// earlier kind already has missing ids, and reports all missing kinds at once.
func (s *videoService) checkReferences(ctx context.Context, spec model.VideoSpec) error {
	checks := []struct {
		label   string
		checker repository.ReferenceChecker
		ids     []string
	}{
		{"categories", s.refs.Categories, spec.Categories},
		{"genres", s.refs.Genres, spec.Genres},
		{"cast members", s.refs.CastMembers, spec.CastMembers},
	}

	verr := &model.ValidationError{}
	for _, c := range checks {
		existing, err := c.checker.ExistsByIDs(ctx, c.ids)
		if err != nil {
			return fmt.Errorf("check %s: %w", c.label, err)
		}
		if missing := missingIDs(c.ids, existing); len(missing) > 0 {
			verr.Append(fmt.Sprintf("Some %s could not be found: %s", c.label, strings.Join(missing, ", ")))
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// missingIDs returns requested minus existing, in requested order.
func missingIDs(requested, existing []string) []string {
	var missing []string
	for _, id := range requested {
		if !slices.Contains(existing, id) {
			missing = append(missing, id)
		}
	}
	return missing
}

func recordCommand(command string, err error) {
	var (
		verr     *model.ValidationError
		notFound *NotFoundError
	)

	result := metrics.CommandResultSuccess
	switch {
	case err == nil:
	case errors.As(err, &verr):
		result = metrics.CommandResultInvalid
	case errors.As(err, &notFound):
		result = metrics.CommandResultNotFound
	default:
		result = metrics.CommandResultInternal
	}
	metrics.VideoCommandsTotal.WithLabelValues(command, result).Inc()
}
