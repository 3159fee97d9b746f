package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/hszk-dev/catalog/internal/domain/model"
	"github.com/hszk-dev/catalog/internal/domain/repository"
)

// mockVideoRepository provides a configurable mock for VideoRepository.
type mockVideoRepository struct {
	createFn     func(ctx context.Context, video *model.Video) (*model.Video, error)
	updateFn     func(ctx context.Context, video *model.Video) (*model.Video, error)
	findByIDFn   func(ctx context.Context, id uuid.UUID) (*model.Video, error)
	deleteByIDFn func(ctx context.Context, id uuid.UUID) error

	createCalls int
	updateCalls int
	created     *model.Video
	updated     *model.Video
}

func (m *mockVideoRepository) Create(ctx context.Context, video *model.Video) (*model.Video, error) {
	m.createCalls++
	m.created = video
	if m.createFn != nil {
		return m.createFn(ctx, video)
	}
	return video, nil
}

func (m *mockVideoRepository) Update(ctx context.Context, video *model.Video) (*model.Video, error) {
	m.updateCalls++
	m.updated = video
	if m.updateFn != nil {
		return m.updateFn(ctx, video)
	}
	return video, nil
}

func (m *mockVideoRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, repository.ErrVideoNotFound
}

func (m *mockVideoRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

// mockMediaGateway provides a configurable mock for MediaResourceGateway.
// Without overrides it stores every resource successfully.
type mockMediaGateway struct {
	storeAudioVideoFn func(ctx context.Context, videoID uuid.UUID, res model.VideoResource) (*model.AudioVideoMedia, error)
	storeImageFn      func(ctx context.Context, videoID uuid.UUID, res model.VideoResource) (*model.ImageMedia, error)
	getResourceFn     func(ctx context.Context, videoID uuid.UUID, kind model.VideoMediaType) (*model.Resource, error)
	clearResourcesFn  func(ctx context.Context, videoID uuid.UUID) error

	storeCalls   int
	clearedIDs   []uuid.UUID
	storedVideos []uuid.UUID
}

func (m *mockMediaGateway) StoreAudioVideo(ctx context.Context, videoID uuid.UUID, res model.VideoResource) (*model.AudioVideoMedia, error) {
	m.storeCalls++
	m.storedVideos = append(m.storedVideos, videoID)
	if m.storeAudioVideoFn != nil {
		return m.storeAudioVideoFn(ctx, videoID, res)
	}
	media, err := model.NewPendingAudioVideoMedia(res.Resource.Checksum, res.Resource.Name, mediaKey(videoID, res.Type))
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (m *mockMediaGateway) StoreImage(ctx context.Context, videoID uuid.UUID, res model.VideoResource) (*model.ImageMedia, error) {
	m.storeCalls++
	m.storedVideos = append(m.storedVideos, videoID)
	if m.storeImageFn != nil {
		return m.storeImageFn(ctx, videoID, res)
	}
	media, err := model.NewImageMediaWithGeneratedID(res.Resource.Checksum, res.Resource.Name, mediaKey(videoID, res.Type))
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (m *mockMediaGateway) GetResource(ctx context.Context, videoID uuid.UUID, kind model.VideoMediaType) (*model.Resource, error) {
	if m.getResourceFn != nil {
		return m.getResourceFn(ctx, videoID, kind)
	}
	return nil, repository.ErrResourceNotFound
}

func (m *mockMediaGateway) ClearResources(ctx context.Context, videoID uuid.UUID) error {
	m.clearedIDs = append(m.clearedIDs, videoID)
	if m.clearResourcesFn != nil {
		return m.clearResourcesFn(ctx, videoID)
	}
	return nil
}

func mediaKey(videoID uuid.UUID, kind model.VideoMediaType) string {
	return "videoId-" + videoID.String() + "/type-" + kind.String()
}

// mockReferenceChecker reports every requested id as existing, except those in missing.
type mockReferenceChecker struct {
	existsByIDsFn func(ctx context.Context, ids []string) ([]string, error)
	missing       map[string]bool

	calls     int
	requested [][]string
}

func (m *mockReferenceChecker) ExistsByIDs(ctx context.Context, ids []string) ([]string, error) {
	m.calls++
	m.requested = append(m.requested, ids)
	if m.existsByIDsFn != nil {
		return m.existsByIDsFn(ctx, ids)
	}
	existing := make([]string, 0, len(ids))
	for _, id := range ids {
		if !m.missing[id] {
			existing = append(existing, id)
		}
	}
	return existing, nil
}

// mockOutboxRepository provides a configurable mock for OutboxRepository.
type mockOutboxRepository struct {
	fetchPendingFn  func(ctx context.Context, limit int) ([]repository.OutboxEvent, error)
	markPublishedFn func(ctx context.Context, id uuid.UUID) error

	marked []uuid.UUID
}

func (m *mockOutboxRepository) FetchPending(ctx context.Context, limit int) ([]repository.OutboxEvent, error) {
	if m.fetchPendingFn != nil {
		return m.fetchPendingFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockOutboxRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	m.marked = append(m.marked, id)
	if m.markPublishedFn != nil {
		return m.markPublishedFn(ctx, id)
	}
	return nil
}

// mockMessageQueue provides a configurable mock for MessageQueue.
type mockMessageQueue struct {
	mu sync.Mutex

	publishEventFn          func(ctx context.Context, msg repository.EventMessage) error
	consumeEncoderResultsFn func(ctx context.Context, handler func(result repository.EncoderResult) error) error
	publishEncoderResultFn  func(ctx context.Context, result repository.EncoderResult) error

	published []repository.EventMessage
}

func (m *mockMessageQueue) PublishEvent(ctx context.Context, msg repository.EventMessage) error {
	if m.publishEventFn != nil {
		if err := m.publishEventFn(ctx, msg); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, msg)
	return nil
}

func (m *mockMessageQueue) ConsumeEncoderResults(ctx context.Context, handler func(result repository.EncoderResult) error) error {
	if m.consumeEncoderResultsFn != nil {
		return m.consumeEncoderResultsFn(ctx, handler)
	}
	return nil
}

func (m *mockMessageQueue) PublishEncoderResult(ctx context.Context, result repository.EncoderResult) error {
	if m.publishEncoderResultFn != nil {
		return m.publishEncoderResultFn(ctx, result)
	}
	return nil
}

func (m *mockMessageQueue) Close() error {
	return nil
}
