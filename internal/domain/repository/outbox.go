package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxEvent is a domain event persisted with its aggregate, awaiting publication.
type OutboxEvent struct {
	ID          uuid.UUID       `db:"id"`
	AggregateID uuid.UUID       `db:"aggregate_id"`
	EventType   string          `db:"event_type"`
	Payload     json.RawMessage `db:"payload"`
	OccurredAt  time.Time       `db:"occurred_at"`
}

// Message converts the stored event into its broker envelope.
func (e OutboxEvent) Message() EventMessage {
	return EventMessage{
		ID:          e.ID,
		Type:        e.EventType,
		AggregateID: e.AggregateID,
		Payload:     e.Payload,
		OccurredAt:  e.OccurredAt,
	}
}

// OutboxRepository reads and acknowledges outbox rows.
type OutboxRepository interface {
	// FetchPending returns up to limit unpublished events, oldest first.
	FetchPending(ctx context.Context, limit int) ([]OutboxEvent, error)

	// MarkPublished records that the event reached the broker.
	MarkPublished(ctx context.Context, id uuid.UUID) error
}
