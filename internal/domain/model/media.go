package model

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// MediaStatus represents the encoding state of an audio/video media.
type MediaStatus string

const (
	MediaStatusPending    MediaStatus = "PENDING"
	MediaStatusProcessing MediaStatus = "PROCESSING"
	MediaStatusCompleted  MediaStatus = "COMPLETED"
)

func (s MediaStatus) IsValid() bool {
	switch s {
	case MediaStatusPending, MediaStatusProcessing, MediaStatusCompleted:
		return true
	default:
		return false
	}
}

func (s MediaStatus) String() string {
	return string(s)
}

// ParseMediaStatus returns the status matching s, ignoring case.
func ParseMediaStatus(s string) (MediaStatus, bool) {
	status := MediaStatus(strings.ToUpper(strings.TrimSpace(s)))
	return status, status.IsValid()
}

// VideoMediaType tags the five media slots of a video.
type VideoMediaType string

const (
	MediaTypeVideo         VideoMediaType = "VIDEO"
	MediaTypeTrailer       VideoMediaType = "TRAILER"
	MediaTypeBanner        VideoMediaType = "BANNER"
	MediaTypeThumbnail     VideoMediaType = "THUMBNAIL"
	MediaTypeThumbnailHalf VideoMediaType = "THUMBNAIL_HALF"
)

func (t VideoMediaType) IsValid() bool {
	switch t {
	case MediaTypeVideo, MediaTypeTrailer, MediaTypeBanner, MediaTypeThumbnail, MediaTypeThumbnailHalf:
		return true
	default:
		return false
	}
}

// IsAudioVideo reports whether media of this kind goes through encoding.
func (t VideoMediaType) IsAudioVideo() bool {
	return t == MediaTypeVideo || t == MediaTypeTrailer
}

func (t VideoMediaType) String() string {
	return string(t)
}

// ParseVideoMediaType returns the media type matching s, ignoring case.
func ParseVideoMediaType(s string) (VideoMediaType, bool) {
	t := VideoMediaType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}

var (
	ErrBlankMediaID       = errors.New("media id must not be blank")
	ErrBlankChecksum      = errors.New("media checksum must not be blank")
	ErrBlankMediaName     = errors.New("media name must not be blank")
	ErrBlankMediaLocation = errors.New("media location must not be blank")
	ErrInvalidMediaStatus = errors.New("invalid media status")
)

// AudioVideoMedia is an immutable reference to an uploaded audio/video file
// and its encoding progress.
//
// Two values are the same media when their IDs match; use Equal rather than ==.
type AudioVideoMedia struct {
	ID              string
	Checksum        string
	Name            string
	RawLocation     string
	EncodedLocation string
	Status          MediaStatus
}

// NewAudioVideoMedia restores an audio/video media from its parts.
func NewAudioVideoMedia(id, checksum, name, rawLocation, encodedLocation string, status MediaStatus) (AudioVideoMedia, error) {
	if err := requireMediaFields(id, checksum, name, rawLocation); err != nil {
		return AudioVideoMedia{}, err
	}
	if !status.IsValid() {
		return AudioVideoMedia{}, ErrInvalidMediaStatus
	}

	return AudioVideoMedia{
		ID:              id,
		Checksum:        checksum,
		Name:            name,
		RawLocation:     rawLocation,
		EncodedLocation: encodedLocation,
		Status:          status,
	}, nil
}

// NewPendingAudioVideoMedia creates a freshly uploaded media awaiting encoding.
func NewPendingAudioVideoMedia(checksum, name, rawLocation string) (AudioVideoMedia, error) {
	return NewAudioVideoMedia(uuid.NewString(), checksum, name, rawLocation, "", MediaStatusPending)
}

// Processing returns a copy marked as being encoded.
func (m AudioVideoMedia) Processing() AudioVideoMedia {
	m.Status = MediaStatusProcessing
	return m
}

// Completed returns a copy marked as encoded at encodedPath.
func (m AudioVideoMedia) Completed(encodedPath string) AudioVideoMedia {
	m.Status = MediaStatusCompleted
	m.EncodedLocation = encodedPath
	return m
}

func (m AudioVideoMedia) IsPendingEncode() bool {
	return m.Status == MediaStatusPending
}

func (m AudioVideoMedia) Equal(other AudioVideoMedia) bool {
	return m.ID == other.ID
}

// ImageMedia is an immutable reference to an uploaded image.
//
// Two values are the same media when their IDs match; use Equal rather than ==.
type ImageMedia struct {
	ID       string
	Checksum string
	Name     string
	Location string
}

// NewImageMedia restores an image media from its parts.
func NewImageMedia(id, checksum, name, location string) (ImageMedia, error) {
	if err := requireMediaFields(id, checksum, name, location); err != nil {
		return ImageMedia{}, err
	}
	return ImageMedia{
		ID:       id,
		Checksum: checksum,
		Name:     name,
		Location: location,
	}, nil
}

// NewImageMediaWithGeneratedID creates an image media with a fresh id.
func NewImageMediaWithGeneratedID(checksum, name, location string) (ImageMedia, error) {
	return NewImageMedia(uuid.NewString(), checksum, name, location)
}

func (m ImageMedia) Equal(other ImageMedia) bool {
	return m.ID == other.ID
}

func requireMediaFields(id, checksum, name, location string) error {
	switch {
	case isBlank(id):
		return ErrBlankMediaID
	case isBlank(checksum):
		return ErrBlankChecksum
	case isBlank(name):
		return ErrBlankMediaName
	case isBlank(location):
		return ErrBlankMediaLocation
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
