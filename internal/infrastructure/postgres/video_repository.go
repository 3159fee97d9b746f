package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hszk-dev/catalog/internal/domain/model"
	"github.com/hszk-dev/catalog/internal/domain/repository"
	"github.com/hszk-dev/catalog/internal/infrastructure/metrics"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxDB is a DBTX that can open transactions, satisfied by pgxpool.Pool and pgxmock.
type TxDB interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Reference kinds stored in video_references.ref_type.
const (
	refCategory   = "CATEGORY"
	refGenre      = "GENRE"
	refCastMember = "CAST_MEMBER"
)

type videoRow struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	LaunchedAt  int       `db:"year_launched"`
	Duration    float64   `db:"duration"`
	Rating      string    `db:"rating"`
	Opened      bool      `db:"opened"`
	Published   bool      `db:"published"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type mediaRow struct {
	MediaType       string  `db:"media_type"`
	ID              string  `db:"id"`
	Checksum        string  `db:"checksum"`
	Name            string  `db:"name"`
	Location        string  `db:"location"`
	EncodedLocation *string `db:"encoded_location"`
	Status          *string `db:"status"`
}

type referenceRow struct {
	RefType string `db:"ref_type"`
	RefID   string `db:"ref_id"`
}

// VideoRepository implements repository.VideoRepository using PostgreSQL.
// Every write runs in one transaction together with the outbox rows of the
// events the aggregate raised.
type VideoRepository struct {
	db TxDB
}

// NewVideoRepository creates a new VideoRepository instance.
func NewVideoRepository(db TxDB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create persists a new video aggregate.
func (r *VideoRepository) Create(ctx context.Context, video *model.Video) (*model.Video, error) {
	const query = `
		INSERT INTO videos (id, title, description, year_launched, duration, rating, opened, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			video.ID,
			video.Title,
			video.Description,
			video.LaunchedAt,
			video.Duration,
			video.Rating.String(),
			video.Opened,
			video.Published,
			video.CreatedAt,
			video.UpdatedAt,
		)
		if err != nil {
			return err
		}
		metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableVideos).Inc()

		return r.writeChildren(ctx, tx, video)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, repository.ErrDuplicateVideo
		}
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	video.ClearDomainEvents()
	return video, nil
}

// Update replaces the scalar fields, media and references of an existing video.
func (r *VideoRepository) Update(ctx context.Context, video *model.Video) (*model.Video, error) {
	const query = `
		UPDATE videos
		SET title = $2, description = $3, year_launched = $4, duration = $5, rating = $6,
		    opened = $7, published = $8, updated_at = $9
		WHERE id = $1
	`

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query,
			video.ID,
			video.Title,
			video.Description,
			video.LaunchedAt,
			video.Duration,
			video.Rating.String(),
			video.Opened,
			video.Published,
			video.UpdatedAt,
		)
		if err != nil {
			return err
		}
		metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryUpdate, metrics.TableVideos).Inc()

		if tag.RowsAffected() == 0 {
			return repository.ErrVideoNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM video_media WHERE video_id = $1`, video.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM video_references WHERE video_id = $1`, video.ID); err != nil {
			return err
		}

		return r.writeChildren(ctx, tx, video)
	})
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	video.ClearDomainEvents()
	return video, nil
}

// FindByID loads a video with its media and references.
func (r *VideoRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	const videoQuery = `
		SELECT id, title, description, year_launched, duration, rating, opened, published, created_at, updated_at
		FROM videos
		WHERE id = $1
	`
	const mediaQuery = `
		SELECT media_type, id, checksum, name, location, encoded_location, status
		FROM video_media
		WHERE video_id = $1
	`
	const refsQuery = `
		SELECT ref_type, ref_id
		FROM video_references
		WHERE video_id = $1
		ORDER BY ref_type, position
	`

	var row videoRow
	if err := pgxscan.Get(ctx, r.db, &row, videoQuery, id); err != nil {
		if pgxscan.NotFound(err) {
			return nil, repository.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video by ID: %w", err)
	}
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableVideos).Inc()

	var media []mediaRow
	if err := pgxscan.Select(ctx, r.db, &media, mediaQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get video media: %w", err)
	}
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableVideoMedia).Inc()

	var refs []referenceRow
	if err := pgxscan.Select(ctx, r.db, &refs, refsQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get video references: %w", err)
	}
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableVideoRefs).Inc()

	return toVideo(row, media, refs)
}

// DeleteByID removes a video; media and reference rows cascade.
func (r *VideoRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryDelete, metrics.TableVideos).Inc()
	return nil
}

func (r *VideoRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// writeChildren inserts media rows, reference rows and outbox rows of video.
func (r *VideoRepository) writeChildren(ctx context.Context, tx pgx.Tx, video *model.Video) error {
	if err := insertMedia(ctx, tx, video); err != nil {
		return err
	}
	if err := insertReferences(ctx, tx, video); err != nil {
		return err
	}
	return insertOutbox(ctx, tx, video)
}

func insertMedia(ctx context.Context, tx pgx.Tx, video *model.Video) error {
	const query = `
		INSERT INTO video_media (video_id, media_type, id, checksum, name, location, encoded_location, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, row := range mediaRows(video) {
		_, err := tx.Exec(ctx, query,
			video.ID,
			row.MediaType,
			row.ID,
			row.Checksum,
			row.Name,
			row.Location,
			row.EncodedLocation,
			row.Status,
		)
		if err != nil {
			return fmt.Errorf("insert %s media: %w", row.MediaType, err)
		}
		metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableVideoMedia).Inc()
	}
	return nil
}

func insertReferences(ctx context.Context, tx pgx.Tx, video *model.Video) error {
	const query = `
		INSERT INTO video_references (video_id, ref_type, ref_id, position)
		SELECT $1, $2, ref.id, ref.position
		FROM unnest($3::varchar[]) WITH ORDINALITY AS ref(id, position)
	`

	groups := []struct {
		refType string
		ids     []string
	}{
		{refCategory, video.Categories},
		{refGenre, video.Genres},
		{refCastMember, video.CastMembers},
	}

	for _, g := range groups {
		if len(g.ids) == 0 {
			continue
		}
		if _, err := tx.Exec(ctx, query, video.ID, g.refType, g.ids); err != nil {
			return fmt.Errorf("insert %s references: %w", g.refType, err)
		}
		metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableVideoRefs).Inc()
	}
	return nil
}

func insertOutbox(ctx context.Context, tx pgx.Tx, video *model.Video) error {
	const query = `
		INSERT INTO outbox_events (id, aggregate_id, event_type, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, event := range video.DomainEvents() {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal %s event: %w", event.EventType(), err)
		}
		_, err = tx.Exec(ctx, query,
			uuid.New(),
			event.AggregateID(),
			event.EventType(),
			payload,
			event.OccurredAt(),
		)
		if err != nil {
			return fmt.Errorf("insert outbox event: %w", err)
		}
		metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableOutboxEvents).Inc()
	}
	return nil
}

// mediaRows flattens the filled media slots of video, audio/video first.
func mediaRows(video *model.Video) []mediaRow {
	var rows []mediaRow

	addAudioVideo := func(kind model.VideoMediaType, m *model.AudioVideoMedia) {
		if m == nil {
			return
		}
		status := m.Status.String()
		encoded := m.EncodedLocation
		rows = append(rows, mediaRow{
			MediaType:       kind.String(),
			ID:              m.ID,
			Checksum:        m.Checksum,
			Name:            m.Name,
			Location:        m.RawLocation,
			EncodedLocation: &encoded,
			Status:          &status,
		})
	}
	addImage := func(kind model.VideoMediaType, m *model.ImageMedia) {
		if m == nil {
			return
		}
		rows = append(rows, mediaRow{
			MediaType: kind.String(),
			ID:        m.ID,
			Checksum:  m.Checksum,
			Name:      m.Name,
			Location:  m.Location,
		})
	}

	addAudioVideo(model.MediaTypeVideo, video.VideoMedia)
	addAudioVideo(model.MediaTypeTrailer, video.Trailer)
	addImage(model.MediaTypeBanner, video.Banner)
	addImage(model.MediaTypeThumbnail, video.Thumbnail)
	addImage(model.MediaTypeThumbnailHalf, video.ThumbnailHalf)

	return rows
}

func toVideo(row videoRow, media []mediaRow, refs []referenceRow) (*model.Video, error) {
	video := &model.Video{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		LaunchedAt:  row.LaunchedAt,
		Duration:    row.Duration,
		Rating:      model.Rating(row.Rating),
		Opened:      row.Opened,
		Published:   row.Published,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		Categories:  []string{},
		Genres:      []string{},
		CastMembers: []string{},
	}

	for _, ref := range refs {
		switch ref.RefType {
		case refCategory:
			video.Categories = append(video.Categories, ref.RefID)
		case refGenre:
			video.Genres = append(video.Genres, ref.RefID)
		case refCastMember:
			video.CastMembers = append(video.CastMembers, ref.RefID)
		}
	}

	for _, m := range media {
		if err := attachMedia(video, m); err != nil {
			return nil, fmt.Errorf("video %s: %w", row.ID, err)
		}
	}

	return video, nil
}

func attachMedia(video *model.Video, row mediaRow) error {
	kind, ok := model.ParseVideoMediaType(row.MediaType)
	if !ok {
		return fmt.Errorf("unknown media type %q", row.MediaType)
	}

	if kind.IsAudioVideo() {
		status, ok := model.ParseMediaStatus(deref(row.Status))
		if !ok {
			return fmt.Errorf("%s media: %w", kind, model.ErrInvalidMediaStatus)
		}
		m, err := model.NewAudioVideoMedia(row.ID, row.Checksum, row.Name, row.Location, deref(row.EncodedLocation), status)
		if err != nil {
			return fmt.Errorf("%s media: %w", kind, err)
		}
		if kind == model.MediaTypeTrailer {
			video.Trailer = &m
		} else {
			video.VideoMedia = &m
		}
		return nil
	}

	m, err := model.NewImageMedia(row.ID, row.Checksum, row.Name, row.Location)
	if err != nil {
		return fmt.Errorf("%s media: %w", kind, err)
	}
	switch kind {
	case model.MediaTypeBanner:
		video.Banner = &m
	case model.MediaTypeThumbnail:
		video.Thumbnail = &m
	case model.MediaTypeThumbnailHalf:
		video.ThumbnailHalf = &m
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Compile-time verification that VideoRepository implements repository.VideoRepository.
var _ repository.VideoRepository = (*VideoRepository)(nil)
