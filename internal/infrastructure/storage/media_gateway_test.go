package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/hszk-dev/catalog/internal/domain/model"
	"github.com/hszk-dev/catalog/internal/domain/repository"
)

type memoryObject struct {
	data []byte
	opts repository.UploadOptions
}

// memoryStorage is an in-memory repository.ObjectStorage.
type memoryStorage struct {
	objects   map[string]memoryObject
	uploadErr error
	deleteErr error
	listErr   error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string]memoryObject)}
}

func (m *memoryStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, opts repository.UploadOptions) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return errors.New("size mismatch")
	}
	m.objects[key] = memoryObject{data: data, opts: opts}
	return nil
}

func (m *memoryStorage) Download(ctx context.Context, key string) (io.ReadCloser, *repository.ObjectInfo, error) {
	obj, ok := m.objects[key]
	if !ok {
		return nil, nil, repository.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), &repository.ObjectInfo{
		Key:         key,
		Size:        int64(len(obj.data)),
		ContentType: obj.opts.ContentType,
		Metadata:    obj.opts.Metadata,
	}, nil
}

func (m *memoryStorage) Delete(ctx context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.objects, key)
	return nil
}

func (m *memoryStorage) List(ctx context.Context, prefix string) ([]repository.ObjectInfo, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []repository.ObjectInfo
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, repository.ObjectInfo{Key: key})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memoryStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.objects[key]
	return ok, nil
}

func testResource(kind model.VideoMediaType, name string) model.VideoResource {
	return model.NewVideoResource(model.Resource{
		Checksum:    "c0ffee",
		Content:     []byte("content of " + name),
		ContentType: "application/octet-stream",
		Name:        name,
	}, kind)
}

func TestMediaKey(t *testing.T) {
	id := uuid.MustParse("7f1c9a51-8f55-4a8c-9d36-0d8c5bb0a111")

	got := MediaKey(id, model.MediaTypeThumbnailHalf)

	want := "videoId-7f1c9a51-8f55-4a8c-9d36-0d8c5bb0a111/type-THUMBNAIL_HALF"
	if got != want {
		t.Errorf("MediaKey() = %s, want %s", got, want)
	}
}

func TestMediaGateway_StoreAudioVideo(t *testing.T) {
	store := newMemoryStorage()
	gw := NewMediaGateway(store)
	videoID := uuid.New()

	media, err := gw.StoreAudioVideo(context.Background(), videoID, testResource(model.MediaTypeTrailer, "trailer.mp4"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := MediaKey(videoID, model.MediaTypeTrailer)
	if media.RawLocation != key {
		t.Errorf("raw location = %s, want %s", media.RawLocation, key)
	}
	if media.Name != "trailer.mp4" || media.Checksum != "c0ffee" {
		t.Errorf("media = %+v", media)
	}
	if media.Status != model.MediaStatusPending || media.EncodedLocation != "" {
		t.Errorf("media must be pending encode, got %+v", media)
	}
	if _, ok := store.objects[key]; !ok {
		t.Errorf("object %s was not uploaded", key)
	}
}

func TestMediaGateway_StoreAudioVideo_RejectsImageKind(t *testing.T) {
	store := newMemoryStorage()
	gw := NewMediaGateway(store)

	_, err := gw.StoreAudioVideo(context.Background(), uuid.New(), testResource(model.MediaTypeBanner, "banner.png"))
	if err == nil {
		t.Fatal("expected error for image kind")
	}
	if len(store.objects) != 0 {
		t.Error("nothing must be uploaded")
	}
}

func TestMediaGateway_StoreImage(t *testing.T) {
	store := newMemoryStorage()
	gw := NewMediaGateway(store)
	videoID := uuid.New()

	media, err := gw.StoreImage(context.Background(), videoID, testResource(model.MediaTypeBanner, "banner.png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if media.Location != MediaKey(videoID, model.MediaTypeBanner) {
		t.Errorf("location = %s", media.Location)
	}
	if media.ID == "" || media.Name != "banner.png" {
		t.Errorf("media = %+v", media)
	}
}

func TestMediaGateway_StoreImage_UploadError(t *testing.T) {
	store := newMemoryStorage()
	store.uploadErr = errors.New("bucket unavailable")
	gw := NewMediaGateway(store)

	_, err := gw.StoreImage(context.Background(), uuid.New(), testResource(model.MediaTypeThumbnail, "thumb.png"))
	if err == nil || !strings.Contains(err.Error(), "bucket unavailable") {
		t.Fatalf("expected upload error, got %v", err)
	}
}

func TestMediaGateway_GetResource(t *testing.T) {
	store := newMemoryStorage()
	gw := NewMediaGateway(store)
	videoID := uuid.New()
	original := testResource(model.MediaTypeVideo, "my vídeo.mp4")

	if _, err := gw.StoreAudioVideo(context.Background(), videoID, original); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	got, err := gw.GetResource(context.Background(), videoID, model.MediaTypeVideo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Name != original.Resource.Name {
		t.Errorf("name = %q, want %q", got.Name, original.Resource.Name)
	}
	if got.Checksum != original.Resource.Checksum {
		t.Errorf("checksum = %q, want %q", got.Checksum, original.Resource.Checksum)
	}
	if !bytes.Equal(got.Content, original.Resource.Content) {
		t.Errorf("content = %q", got.Content)
	}
	if got.ContentType != original.Resource.ContentType {
		t.Errorf("content type = %q", got.ContentType)
	}
}

func TestMediaGateway_GetResource_NotFound(t *testing.T) {
	gw := NewMediaGateway(newMemoryStorage())

	_, err := gw.GetResource(context.Background(), uuid.New(), model.MediaTypeBanner)
	if !errors.Is(err, repository.ErrResourceNotFound) {
		t.Fatalf("error = %v, want ErrResourceNotFound", err)
	}
}

func TestMediaGateway_ClearResources(t *testing.T) {
	store := newMemoryStorage()
	gw := NewMediaGateway(store)
	videoID := uuid.New()
	otherID := uuid.New()
	ctx := context.Background()

	for _, res := range []model.VideoResource{
		testResource(model.MediaTypeVideo, "video.mp4"),
		testResource(model.MediaTypeTrailer, "trailer.mp4"),
	} {
		if _, err := gw.StoreAudioVideo(ctx, videoID, res); err != nil {
			t.Fatalf("store failed: %v", err)
		}
	}
	if _, err := gw.StoreImage(ctx, otherID, testResource(model.MediaTypeBanner, "banner.png")); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	if err := gw.ClearResources(ctx, videoID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.objects) != 1 {
		t.Fatalf("remaining objects = %d, want 1", len(store.objects))
	}
	if _, ok := store.objects[MediaKey(otherID, model.MediaTypeBanner)]; !ok {
		t.Error("resources of other videos must be kept")
	}

	// clearing again is a no-op
	if err := gw.ClearResources(ctx, videoID); err != nil {
		t.Errorf("second clear returned %v", err)
	}
}

func TestMediaGateway_ClearResources_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(s *memoryStorage)
		wantErr string
	}{
		{
			name:    "list error",
			setup:   func(s *memoryStorage) { s.listErr = errors.New("list failed") },
			wantErr: "list failed",
		},
		{
			name:    "delete error",
			setup:   func(s *memoryStorage) { s.deleteErr = errors.New("delete failed") },
			wantErr: "delete failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStorage()
			gw := NewMediaGateway(store)
			videoID := uuid.New()
			if _, err := gw.StoreImage(context.Background(), videoID, testResource(model.MediaTypeBanner, "banner.png")); err != nil {
				t.Fatalf("store failed: %v", err)
			}
			tt.setup(store)

			err := gw.ClearResources(context.Background(), videoID)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
