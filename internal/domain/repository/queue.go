package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventMessage is the broker envelope of a domain event.
type EventMessage struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	AggregateID uuid.UUID       `json:"aggregate_id"`
	Payload     json.RawMessage `json:"payload"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// EncoderStatus is the outcome reported by the encoding pipeline.
type EncoderStatus string

const (
	EncoderStatusProcessing EncoderStatus = "PROCESSING"
	EncoderStatusCompleted  EncoderStatus = "COMPLETED"
	EncoderStatusError      EncoderStatus = "ERROR"
)

// EncoderResult is a status report for one encoded media resource.
type EncoderResult struct {
	VideoID         uuid.UUID     `json:"video_id"`
	ResourceID      string        `json:"resource_id"`
	Status          EncoderStatus `json:"status"`
	EncodedLocation string        `json:"encoded_location,omitempty"`
	Message         string        `json:"message,omitempty"`
	RetryCount      int           `json:"retry_count"`
}

// MessageQueue defines the interface for message queue operations.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type MessageQueue interface {
	// PublishEvent sends a domain event to the events exchange, routed by its type.
	PublishEvent(ctx context.Context, msg EventMessage) error

	// ConsumeEncoderResults consumes encoder results until ctx is cancelled.
	// The handler function is called for each received result.
	ConsumeEncoderResults(ctx context.Context, handler func(result EncoderResult) error) error

	// PublishEncoderResult sends an encoder result, used for retries.
	PublishEncoderResult(ctx context.Context, result EncoderResult) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}
