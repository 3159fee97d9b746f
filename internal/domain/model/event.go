package model

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact raised by an aggregate and queued for dispatch.
type DomainEvent interface {
	EventType() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

// EventTypeVideoMediaCreated is the routing name of VideoMediaCreated.
const EventTypeVideoMediaCreated = "video.media.created"

// VideoMediaCreated is raised when a pending audio/video media is attached to a
// video. It carries what the encoder needs to locate the raw file.
type VideoMediaCreated struct {
	VideoID    uuid.UUID `json:"-"`
	ResourceID string    `json:"resource_id"`
	FilePath   string    `json:"file_path"`
	OccurredOn time.Time `json:"occurred_on"`
}

func NewVideoMediaCreated(videoID uuid.UUID, resourceID, filePath string) VideoMediaCreated {
	return VideoMediaCreated{
		VideoID:    videoID,
		ResourceID: resourceID,
		FilePath:   filePath,
		OccurredOn: time.Now(),
	}
}

func (e VideoMediaCreated) EventType() string      { return EventTypeVideoMediaCreated }
func (e VideoMediaCreated) AggregateID() uuid.UUID { return e.VideoID }
func (e VideoMediaCreated) OccurredAt() time.Time  { return e.OccurredOn }
