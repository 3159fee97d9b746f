package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/hszk-dev/catalog/internal/domain/repository"
	"github.com/hszk-dev/catalog/internal/infrastructure/metrics"
)

// OutboxRepository implements repository.OutboxRepository using PostgreSQL.
// It assumes a single relay; concurrent relays may publish an event twice.
type OutboxRepository struct {
	db DBTX
}

// NewOutboxRepository creates a new OutboxRepository instance.
func NewOutboxRepository(db DBTX) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// FetchPending returns up to limit unpublished events, oldest first.
func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]repository.OutboxEvent, error) {
	const query = `
		SELECT id, aggregate_id, event_type, payload, occurred_at
		FROM outbox_events
		WHERE published_at IS NULL
		ORDER BY occurred_at, id
		LIMIT $1
	`

	var events []repository.OutboxEvent
	if err := pgxscan.Select(ctx, r.db, &events, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch pending events: %w", err)
	}
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableOutboxEvents).Inc()

	return events, nil
}

// MarkPublished stamps the event as published.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE outbox_events SET published_at = $2 WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id, time.Now()); err != nil {
		return fmt.Errorf("failed to mark event published: %w", err)
	}
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryUpdate, metrics.TableOutboxEvents).Inc()

	return nil
}

// Compile-time verification that OutboxRepository implements repository.OutboxRepository.
var _ repository.OutboxRepository = (*OutboxRepository)(nil)
