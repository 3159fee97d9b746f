package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hszk-dev/catalog/internal/domain/model"
	"github.com/hszk-dev/catalog/internal/usecase"
)

// Multipart form fields.
const (
	fieldTitle         = "title"
	fieldDescription   = "description"
	fieldYearLaunched  = "year_launched"
	fieldDuration      = "duration"
	fieldRating        = "rating"
	fieldOpened        = "opened"
	fieldPublished     = "published"
	fieldCategories    = "categories_id"
	fieldGenres        = "genres_id"
	fieldCastMembers   = "cast_members_id"
	fieldVideo         = "video_file"
	fieldTrailer       = "trailer_file"
	fieldBanner        = "banner_file"
	fieldThumbnail     = "thumb_file"
	fieldThumbnailHalf = "thumb_half_file"
)

// Request/Response types

type VideoIDResponse struct {
	ID string `json:"id"`
}

type ImageMediaResponse struct {
	ID       string `json:"id"`
	Checksum string `json:"checksum"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type AudioVideoMediaResponse struct {
	ID              string `json:"id"`
	Checksum        string `json:"checksum"`
	Name            string `json:"name"`
	RawLocation     string `json:"raw_location"`
	EncodedLocation string `json:"encoded_location,omitempty"`
	Status          string `json:"status"`
}

type VideoResponse struct {
	ID            string                   `json:"id"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description"`
	YearLaunched  int                      `json:"year_launched"`
	Duration      float64                  `json:"duration"`
	Rating        string                   `json:"rating"`
	Opened        bool                     `json:"opened"`
	Published     bool                     `json:"published"`
	Categories    []string                 `json:"categories_id"`
	Genres        []string                 `json:"genres_id"`
	CastMembers   []string                 `json:"cast_members_id"`
	Video         *AudioVideoMediaResponse `json:"video,omitempty"`
	Trailer       *AudioVideoMediaResponse `json:"trailer,omitempty"`
	Banner        *ImageMediaResponse      `json:"banner,omitempty"`
	Thumbnail     *ImageMediaResponse      `json:"thumbnail,omitempty"`
	ThumbnailHalf *ImageMediaResponse      `json:"thumbnail_half,omitempty"`
	CreatedAt     string                   `json:"created_at"`
	UpdatedAt     string                   `json:"updated_at"`
}

// VideoHandlerConfig holds limits applied to video requests.
type VideoHandlerConfig struct {
	MaxUploadSize int64 // Maximum multipart body size in bytes
	MaxMemory     int64 // Multipart bytes kept in memory before spilling to disk
}

// DefaultVideoHandlerConfig returns a VideoHandlerConfig with sensible defaults.
func DefaultVideoHandlerConfig() VideoHandlerConfig {
	return VideoHandlerConfig{
		MaxUploadSize: 1 << 30,
		MaxMemory:     32 << 20,
	}
}

// VideoHandler handles video-related HTTP requests.
type VideoHandler struct {
	svc    usecase.VideoService
	config VideoHandlerConfig
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(svc usecase.VideoService, cfg VideoHandlerConfig) *VideoHandler {
	return &VideoHandler{svc: svc, config: cfg}
}

// Routes mounts the video endpoints on r.
func (h *VideoHandler) Routes(r chi.Router) {
	r.Post("/videos", h.Create)
	r.Route("/videos/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Get("/medias/{type}", h.GetMedia)
	})
}

// Create handles POST /v1/videos
func (h *VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	cmd, ok := h.parseCommand(w, r)
	if !ok {
		return
	}

	out, err := h.svc.CreateVideo(r.Context(), cmd)
	if err != nil {
		ServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/v1/videos/"+out.ID.String())
	JSON(w, http.StatusCreated, VideoIDResponse{ID: out.ID.String()})
}

// Update handles PUT /v1/videos/{id}
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	videoID, ok := parseVideoID(w, r)
	if !ok {
		return
	}

	cmd, ok := h.parseCommand(w, r)
	if !ok {
		return
	}

	out, err := h.svc.UpdateVideo(r.Context(), usecase.UpdateVideoCommand{ID: videoID, VideoCommand: cmd})
	if err != nil {
		ServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, VideoIDResponse{ID: out.ID.String()})
}

// Get handles GET /v1/videos/{id}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, ok := parseVideoID(w, r)
	if !ok {
		return
	}

	video, err := h.svc.GetVideo(r.Context(), videoID)
	if err != nil {
		ServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toVideoResponse(video))
}

// Delete handles DELETE /v1/videos/{id}
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	videoID, ok := parseVideoID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteVideo(r.Context(), videoID); err != nil {
		ServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetMedia handles GET /v1/videos/{id}/medias/{type}
func (h *VideoHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	videoID, ok := parseVideoID(w, r)
	if !ok {
		return
	}

	kind, ok := model.ParseVideoMediaType(chi.URLParam(r, "type"))
	if !ok {
		Error(w, http.StatusBadRequest, "invalid_media_type", "Media type must be one of VIDEO, TRAILER, BANNER, THUMBNAIL, THUMBNAIL_HALF")
		return
	}

	res, err := h.svc.GetMedia(r.Context(), videoID, kind)
	if err != nil {
		ServiceError(w, r, err)
		return
	}

	contentType := res.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Content)))
	if res.Name != "" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Name}))
	}
	if res.Checksum != "" {
		w.Header().Set("ETag", strconv.Quote(res.Checksum))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Content)
}

// parseCommand reads the multipart form into a VideoCommand.
// It writes the error response itself and reports false on failure. Values
// that fail to parse are reported together with the field rules of the command.
func (h *VideoHandler) parseCommand(w http.ResponseWriter, r *http.Request) (usecase.VideoCommand, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadSize)
	if err := r.ParseMultipartForm(h.config.MaxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(w, http.StatusRequestEntityTooLarge, "request_too_large", fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
			return usecase.VideoCommand{}, false
		}
		Error(w, http.StatusBadRequest, "invalid_request", "Request must be a multipart form")
		return usecase.VideoCommand{}, false
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form := r.MultipartForm
	verr := &model.ValidationError{}

	cmd := usecase.VideoCommand{
		Title:       formValue(form, fieldTitle),
		Description: formValue(form, fieldDescription),
		Rating:      formValue(form, fieldRating),
		Categories:  formIDs(form, fieldCategories),
		Genres:      formIDs(form, fieldGenres),
		CastMembers: formIDs(form, fieldCastMembers),
	}

	if v := formValue(form, fieldYearLaunched); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			verr.Append(fmt.Sprintf("'%s' must be an integer", fieldYearLaunched))
		}
		cmd.LaunchedAt = year
	}
	if v := formValue(form, fieldDuration); v != "" {
		duration, err := strconv.ParseFloat(v, 64)
		if err != nil {
			verr.Append(fmt.Sprintf("'%s' must be a number", fieldDuration))
		}
		cmd.Duration = duration
	}
	cmd.Opened = formBool(form, fieldOpened, verr)
	cmd.Published = formBool(form, fieldPublished, verr)

	files := []struct {
		field string
		dst   **model.Resource
	}{
		{fieldVideo, &cmd.Video},
		{fieldTrailer, &cmd.Trailer},
		{fieldBanner, &cmd.Banner},
		{fieldThumbnail, &cmd.Thumbnail},
		{fieldThumbnailHalf, &cmd.ThumbnailHalf},
	}
	for _, f := range files {
		res, err := formResource(form, f.field)
		if err != nil {
			Error(w, http.StatusBadRequest, "invalid_file", fmt.Sprintf("Could not read '%s'", f.field))
			return usecase.VideoCommand{}, false
		}
		*f.dst = res
	}

	if verr.HasErrors() {
		var fieldErrs *model.ValidationError
		if errors.As(cmd.Validate(), &fieldErrs) {
			verr.Merge(fieldErrs)
		}
		ServiceError(w, r, verr)
		return usecase.VideoCommand{}, false
	}

	return cmd, true
}

func parseVideoID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return uuid.Nil, false
	}
	return videoID, true
}

func formValue(form *multipart.Form, field string) string {
	if vs := form.Value[field]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

// formIDs accepts repeated fields and comma-separated lists.
func formIDs(form *multipart.Form, field string) []string {
	var ids []string
	for _, v := range form.Value[field] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func formBool(form *multipart.Form, field string, verr *model.ValidationError) bool {
	v := formValue(form, field)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		verr.Append(fmt.Sprintf("'%s' must be a boolean", field))
	}
	return b
}

// formResource reads an uploaded file and computes its xxhash64 checksum.
// It returns nil when the field is absent.
func formResource(form *multipart.Form, field string) (*model.Resource, error) {
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	fh := headers[0]

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}

	return &model.Resource{
		Checksum:    fmt.Sprintf("%016x", xxhash.Sum64(content)),
		Content:     content,
		ContentType: contentType,
		Name:        fh.Filename,
	}, nil
}

func toVideoResponse(v *model.Video) VideoResponse {
	return VideoResponse{
		ID:            v.ID.String(),
		Title:         v.Title,
		Description:   v.Description,
		YearLaunched:  v.LaunchedAt,
		Duration:      v.Duration,
		Rating:        v.Rating.String(),
		Opened:        v.Opened,
		Published:     v.Published,
		Categories:    v.Categories,
		Genres:        v.Genres,
		CastMembers:   v.CastMembers,
		Video:         toAudioVideoResponse(v.VideoMedia),
		Trailer:       toAudioVideoResponse(v.Trailer),
		Banner:        toImageResponse(v.Banner),
		Thumbnail:     toImageResponse(v.Thumbnail),
		ThumbnailHalf: toImageResponse(v.ThumbnailHalf),
		CreatedAt:     v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     v.UpdatedAt.Format(time.RFC3339),
	}
}

func toImageResponse(m *model.ImageMedia) *ImageMediaResponse {
	if m == nil {
		return nil
	}
	return &ImageMediaResponse{ID: m.ID, Checksum: m.Checksum, Name: m.Name, Location: m.Location}
}

func toAudioVideoResponse(m *model.AudioVideoMedia) *AudioVideoMediaResponse {
	if m == nil {
		return nil
	}
	return &AudioVideoMediaResponse{
		ID:              m.ID,
		Checksum:        m.Checksum,
		Name:            m.Name,
		RawLocation:     m.RawLocation,
		EncodedLocation: m.EncodedLocation,
		Status:          m.Status.String(),
	}
}
