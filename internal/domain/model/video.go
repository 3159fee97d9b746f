package model

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VideoSpec carries every caller-controlled field of a video.
// It is the input of NewVideo and Video.Update.
type VideoSpec struct {
	Title       string
	Description string
	LaunchedAt  int
	Duration    float64
	Rating      Rating
	Opened      bool
	Published   bool

	Categories  []string
	Genres      []string
	CastMembers []string

	Banner        *ImageMedia
	Thumbnail     *ImageMedia
	ThumbnailHalf *ImageMedia
	Trailer       *AudioVideoMedia
	VideoMedia    *AudioVideoMedia
}

// Video is the aggregate root of the catalog's video media lifecycle.
type Video struct {
	ID          uuid.UUID
	Title       string
	Description string
	LaunchedAt  int
	Duration    float64
	Rating      Rating
	Opened      bool
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Banner        *ImageMedia
	Thumbnail     *ImageMedia
	ThumbnailHalf *ImageMedia
	Trailer       *AudioVideoMedia
	VideoMedia    *AudioVideoMedia

	Categories  []string
	Genres      []string
	CastMembers []string

	events []DomainEvent
}

// NewVideo creates a validated Video with a fresh ID.
// Pending audio/video media in spec raise VideoMediaCreated.
func NewVideo(spec VideoSpec) (*Video, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	v := &Video{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	v.apply(spec)
	v.raiseIfPending(nil, v.Trailer)
	v.raiseIfPending(nil, v.VideoMedia)

	return v, nil
}

// Clone returns an independent copy suitable as a mutation scratchpad.
func (v *Video) Clone() *Video {
	c := *v
	c.Categories = slices.Clone(v.Categories)
	c.Genres = slices.Clone(v.Genres)
	c.CastMembers = slices.Clone(v.CastMembers)
	c.Banner = cloneImage(v.Banner)
	c.Thumbnail = cloneImage(v.Thumbnail)
	c.ThumbnailHalf = cloneImage(v.ThumbnailHalf)
	c.Trailer = cloneAudioVideo(v.Trailer)
	c.VideoMedia = cloneAudioVideo(v.VideoMedia)
	c.events = slices.Clone(v.events)
	return &c
}

// Update replaces every caller-controlled field, including all five media
// slots. The video is left untouched when spec is invalid.
func (v *Video) Update(spec VideoSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	previousTrailer, previousVideo := v.Trailer, v.VideoMedia
	v.apply(spec)
	v.touch()
	v.raiseIfPending(previousTrailer, v.Trailer)
	v.raiseIfPending(previousVideo, v.VideoMedia)

	return nil
}

func (v *Video) ConfigureBanner(m *ImageMedia) {
	v.Banner = cloneImage(m)
	v.touch()
}

func (v *Video) ConfigureThumbnail(m *ImageMedia) {
	v.Thumbnail = cloneImage(m)
	v.touch()
}

func (v *Video) ConfigureThumbnailHalf(m *ImageMedia) {
	v.ThumbnailHalf = cloneImage(m)
	v.touch()
}

// ConfigureTrailer replaces the trailer and raises VideoMediaCreated when it awaits encoding.
func (v *Video) ConfigureTrailer(m *AudioVideoMedia) {
	v.Trailer = cloneAudioVideo(m)
	v.touch()
	v.raiseIfPending(nil, v.Trailer)
}

// ConfigureVideo replaces the main video and raises VideoMediaCreated when it awaits encoding.
func (v *Video) ConfigureVideo(m *AudioVideoMedia) {
	v.VideoMedia = cloneAudioVideo(m)
	v.touch()
	v.raiseIfPending(nil, v.VideoMedia)
}

// Processing marks the audio/video media of the given kind as being encoded.
// It is a no-op for an empty slot or an image kind.
func (v *Video) Processing(kind VideoMediaType) {
	switch kind {
	case MediaTypeVideo:
		if v.VideoMedia != nil {
			m := v.VideoMedia.Processing()
			v.ConfigureVideo(&m)
		}
	case MediaTypeTrailer:
		if v.Trailer != nil {
			m := v.Trailer.Processing()
			v.ConfigureTrailer(&m)
		}
	}
}

// Completed marks the audio/video media of the given kind as encoded at encodedPath.
// It is a no-op for an empty slot or an image kind.
func (v *Video) Completed(kind VideoMediaType, encodedPath string) {
	switch kind {
	case MediaTypeVideo:
		if v.VideoMedia != nil {
			m := v.VideoMedia.Completed(encodedPath)
			v.ConfigureVideo(&m)
		}
	case MediaTypeTrailer:
		if v.Trailer != nil {
			m := v.Trailer.Completed(encodedPath)
			v.ConfigureTrailer(&m)
		}
	}
}

// MediaByResourceID finds the audio/video slot holding the media with the given id.
func (v *Video) MediaByResourceID(resourceID string) (VideoMediaType, bool) {
	switch {
	case v.VideoMedia != nil && v.VideoMedia.ID == resourceID:
		return MediaTypeVideo, true
	case v.Trailer != nil && v.Trailer.ID == resourceID:
		return MediaTypeTrailer, true
	}
	return "", false
}

// DomainEvents returns the events raised since the last ClearDomainEvents.
func (v *Video) DomainEvents() []DomainEvent {
	return slices.Clone(v.events)
}

// ClearDomainEvents drops pending events once a dispatcher has taken them.
func (v *Video) ClearDomainEvents() {
	v.events = nil
}

func (v *Video) apply(spec VideoSpec) {
	v.Title = strings.TrimSpace(spec.Title)
	v.Description = strings.TrimSpace(spec.Description)
	v.LaunchedAt = spec.LaunchedAt
	v.Duration = spec.Duration
	v.Rating = spec.Rating
	v.Opened = spec.Opened
	v.Published = spec.Published
	v.Categories = UniqueIDs(spec.Categories)
	v.Genres = UniqueIDs(spec.Genres)
	v.CastMembers = UniqueIDs(spec.CastMembers)
	v.Banner = cloneImage(spec.Banner)
	v.Thumbnail = cloneImage(spec.Thumbnail)
	v.ThumbnailHalf = cloneImage(spec.ThumbnailHalf)
	v.Trailer = cloneAudioVideo(spec.Trailer)
	v.VideoMedia = cloneAudioVideo(spec.VideoMedia)
}

// touch advances UpdatedAt, strictly past its previous value.
func (v *Video) touch() {
	now := time.Now()
	if !now.After(v.UpdatedAt) {
		now = v.UpdatedAt.Add(time.Nanosecond)
	}
	v.UpdatedAt = now
}

func (v *Video) raiseIfPending(previous, current *AudioVideoMedia) {
	if current == nil || !current.IsPendingEncode() {
		return
	}
	if previous != nil && previous.Equal(*current) {
		return
	}
	v.events = append(v.events, NewVideoMediaCreated(v.ID, current.ID, current.RawLocation))
}

// UniqueIDs trims ids, drops blanks and duplicates, and keeps first-seen order.
// A nil input yields an empty, non-nil slice.
func UniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func cloneImage(m *ImageMedia) *ImageMedia {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

func cloneAudioVideo(m *AudioVideoMedia) *AudioVideoMedia {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}
