package usecase

import (
	"github.com/google/uuid"
	"github.com/hszk-dev/catalog/internal/domain/model"
)

// VideoCommand carries the caller-controlled fields of a create or update.
// Nil resources leave the corresponding media slot unset.
type VideoCommand struct {
	Title       string
	Description string
	LaunchedAt  int
	Duration    float64
	Rating      string
	Opened      bool
	Published   bool

	Categories  []string
	Genres      []string
	CastMembers []string

	Video         *model.Resource
	Trailer       *model.Resource
	Banner        *model.Resource
	Thumbnail     *model.Resource
	ThumbnailHalf *model.Resource
}

// UpdateVideoCommand targets an existing video.
type UpdateVideoCommand struct {
	ID uuid.UUID
	VideoCommand
}

// VideoOutput contains the result of a create or update.
type VideoOutput struct {
	ID uuid.UUID
}

// Validate runs the scalar field rules of the command and reports every
// violation in one *model.ValidationError.
func (c VideoCommand) Validate() error {
	return c.spec().Validate()
}

// spec converts the scalar fields and references into a VideoSpec without media.
// An unknown rating is treated as absent so the validator reports it.
func (c VideoCommand) spec() model.VideoSpec {
	rating, _ := model.ParseRating(c.Rating)
	return model.VideoSpec{
		Title:       c.Title,
		Description: c.Description,
		LaunchedAt:  c.LaunchedAt,
		Duration:    c.Duration,
		Rating:      rating,
		Opened:      c.Opened,
		Published:   c.Published,
		Categories:  model.UniqueIDs(c.Categories),
		Genres:      model.UniqueIDs(c.Genres),
		CastMembers: model.UniqueIDs(c.CastMembers),
	}
}

// resources lists the present resources tagged with their media kind,
// in a fixed slot order.
func (c VideoCommand) resources() []model.VideoResource {
	slots := []struct {
		res  *model.Resource
		kind model.VideoMediaType
	}{
		{c.Video, model.MediaTypeVideo},
		{c.Trailer, model.MediaTypeTrailer},
		{c.Banner, model.MediaTypeBanner},
		{c.Thumbnail, model.MediaTypeThumbnail},
		{c.ThumbnailHalf, model.MediaTypeThumbnailHalf},
	}

	out := make([]model.VideoResource, 0, len(slots))
	for _, s := range slots {
		if s.res != nil {
			out = append(out, model.NewVideoResource(*s.res, s.kind))
		}
	}
	return out
}
