package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/catalog/internal/domain/model"
	"github.com/hszk-dev/catalog/internal/infrastructure/metrics"
)

const (
	// videoCacheKeyPrefix is the prefix for video cache keys in Redis.
	videoCacheKeyPrefix = "catalog:video:"
)

// videoJSON is the cached representation of a Video.
// Kept separate from the domain model so the cache format is explicit.
type videoJSON struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	LaunchedAt  int      `json:"launched_at"`
	Duration    float64  `json:"duration"`
	Rating      string   `json:"rating,omitempty"`
	Opened      bool     `json:"opened"`
	Published   bool     `json:"published"`
	Categories  []string `json:"categories"`
	Genres      []string `json:"genres"`
	CastMembers []string `json:"cast_members"`

	Banner        *imageJSON      `json:"banner,omitempty"`
	Thumbnail     *imageJSON      `json:"thumbnail,omitempty"`
	ThumbnailHalf *imageJSON      `json:"thumbnail_half,omitempty"`
	Trailer       *audioVideoJSON `json:"trailer,omitempty"`
	Video         *audioVideoJSON `json:"video,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type imageJSON struct {
	ID       string `json:"id"`
	Checksum string `json:"checksum"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type audioVideoJSON struct {
	ID              string `json:"id"`
	Checksum        string `json:"checksum"`
	Name            string `json:"name"`
	RawLocation     string `json:"raw_location"`
	EncodedLocation string `json:"encoded_location,omitempty"`
	Status          string `json:"status"`
}

// RedisVideoCache implements VideoCache using Redis as the backing store.
type RedisVideoCache struct {
	client *redis.Client
}

var _ VideoCache = (*RedisVideoCache)(nil)

// NewRedisVideoCache creates a new Redis-backed video cache.
func NewRedisVideoCache(client *redis.Client) *RedisVideoCache {
	return &RedisVideoCache{
		client: client,
	}
}

// Get retrieves a video from Redis cache.
// Returns nil, nil on cache miss.
func (c *RedisVideoCache) Get(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	data, err := c.client.Get(ctx, c.buildKey(videoID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			record(metrics.CacheOpGet, metrics.CacheStatusMiss)
			return nil, nil
		}
		record(metrics.CacheOpGet, metrics.CacheStatusError)
		return nil, fmt.Errorf("redis get: %w", err)
	}

	video, err := deserialize(data)
	if err != nil {
		record(metrics.CacheOpGet, metrics.CacheStatusError)
		return nil, fmt.Errorf("deserialize video: %w", err)
	}

	record(metrics.CacheOpGet, metrics.CacheStatusHit)
	return video, nil
}

// Set stores a video in Redis cache with the specified TTL.
func (c *RedisVideoCache) Set(ctx context.Context, video *model.Video, ttl time.Duration) error {
	data, err := serialize(video)
	if err != nil {
		record(metrics.CacheOpSet, metrics.CacheStatusError)
		return fmt.Errorf("serialize video: %w", err)
	}

	if err := c.client.Set(ctx, c.buildKey(video.ID), data, ttl).Err(); err != nil {
		record(metrics.CacheOpSet, metrics.CacheStatusError)
		return fmt.Errorf("redis set: %w", err)
	}

	record(metrics.CacheOpSet, metrics.CacheStatusSuccess)
	return nil
}

// Delete removes a video from Redis cache.
func (c *RedisVideoCache) Delete(ctx context.Context, videoID uuid.UUID) error {
	if err := c.client.Del(ctx, c.buildKey(videoID)).Err(); err != nil {
		record(metrics.CacheOpDelete, metrics.CacheStatusError)
		return fmt.Errorf("redis del: %w", err)
	}

	record(metrics.CacheOpDelete, metrics.CacheStatusSuccess)
	return nil
}

// Ping verifies the Redis connection is alive.
func (c *RedisVideoCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisVideoCache) buildKey(videoID uuid.UUID) string {
	return videoCacheKeyPrefix + videoID.String()
}

func record(op, status string) {
	metrics.CacheOperationsTotal.WithLabelValues(op, status, metrics.CacheTypeRedis).Inc()
}

func serialize(video *model.Video) ([]byte, error) {
	v := videoJSON{
		ID:            video.ID.String(),
		Title:         video.Title,
		Description:   video.Description,
		LaunchedAt:    video.LaunchedAt,
		Duration:      video.Duration,
		Rating:        string(video.Rating),
		Opened:        video.Opened,
		Published:     video.Published,
		Categories:    video.Categories,
		Genres:        video.Genres,
		CastMembers:   video.CastMembers,
		Banner:        imageToJSON(video.Banner),
		Thumbnail:     imageToJSON(video.Thumbnail),
		ThumbnailHalf: imageToJSON(video.ThumbnailHalf),
		Trailer:       audioVideoToJSON(video.Trailer),
		Video:         audioVideoToJSON(video.VideoMedia),
		CreatedAt:     video.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:     video.UpdatedAt.Format(time.RFC3339Nano),
	}
	return json.Marshal(v)
}

func deserialize(data []byte) (*model.Video, error) {
	var v videoJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(v.ID)
	if err != nil {
		return nil, fmt.Errorf("parse video ID: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	updatedAt, err := time.Parse(time.RFC3339Nano, v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	video := &model.Video{
		ID:          id,
		Title:       v.Title,
		Description: v.Description,
		LaunchedAt:  v.LaunchedAt,
		Duration:    v.Duration,
		Rating:      model.Rating(v.Rating),
		Opened:      v.Opened,
		Published:   v.Published,
		Categories:  nonNil(v.Categories),
		Genres:      nonNil(v.Genres),
		CastMembers: nonNil(v.CastMembers),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}

	if video.Banner, err = imageFromJSON(v.Banner); err != nil {
		return nil, fmt.Errorf("banner: %w", err)
	}
	if video.Thumbnail, err = imageFromJSON(v.Thumbnail); err != nil {
		return nil, fmt.Errorf("thumbnail: %w", err)
	}
	if video.ThumbnailHalf, err = imageFromJSON(v.ThumbnailHalf); err != nil {
		return nil, fmt.Errorf("thumbnail half: %w", err)
	}
	if video.Trailer, err = audioVideoFromJSON(v.Trailer); err != nil {
		return nil, fmt.Errorf("trailer: %w", err)
	}
	if video.VideoMedia, err = audioVideoFromJSON(v.Video); err != nil {
		return nil, fmt.Errorf("video: %w", err)
	}

	return video, nil
}

func imageToJSON(m *model.ImageMedia) *imageJSON {
	if m == nil {
		return nil
	}
	return &imageJSON{ID: m.ID, Checksum: m.Checksum, Name: m.Name, Location: m.Location}
}

func imageFromJSON(j *imageJSON) (*model.ImageMedia, error) {
	if j == nil {
		return nil, nil
	}
	m, err := model.NewImageMedia(j.ID, j.Checksum, j.Name, j.Location)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func audioVideoToJSON(m *model.AudioVideoMedia) *audioVideoJSON {
	if m == nil {
		return nil
	}
	return &audioVideoJSON{
		ID:              m.ID,
		Checksum:        m.Checksum,
		Name:            m.Name,
		RawLocation:     m.RawLocation,
		EncodedLocation: m.EncodedLocation,
		Status:          m.Status.String(),
	}
}

func audioVideoFromJSON(j *audioVideoJSON) (*model.AudioVideoMedia, error) {
	if j == nil {
		return nil, nil
	}
	status, ok := model.ParseMediaStatus(j.Status)
	if !ok {
		return nil, model.ErrInvalidMediaStatus
	}
	m, err := model.NewAudioVideoMedia(j.ID, j.Checksum, j.Name, j.RawLocation, j.EncodedLocation, status)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
