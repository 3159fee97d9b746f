package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hszk-dev/catalog/internal/domain/repository"
	"github.com/hszk-dev/catalog/internal/infrastructure/metrics"
)

// OutboxRelayConfig holds configuration for OutboxRelay.
type OutboxRelayConfig struct {
	// PollInterval is the delay between two relay passes.
	PollInterval time.Duration
	// BatchSize is the maximum number of events published per pass.
	BatchSize int
}

// DefaultOutboxRelayConfig returns the default configuration.
func DefaultOutboxRelayConfig() OutboxRelayConfig {
	return OutboxRelayConfig{
		PollInterval: 2 * time.Second,
		BatchSize:    100,
	}
}

// OutboxRelay publishes domain events persisted in the outbox to the message queue.
type OutboxRelay struct {
	outbox repository.OutboxRepository
	queue  repository.MessageQueue

	pollInterval time.Duration
	batchSize    int
}

// NewOutboxRelay creates a new OutboxRelay.
func NewOutboxRelay(
	outbox repository.OutboxRepository,
	queue repository.MessageQueue,
	cfg OutboxRelayConfig,
) *OutboxRelay {
	return &OutboxRelay{
		outbox:       outbox,
		queue:        queue,
		pollInterval: cfg.PollInterval,
		batchSize:    cfg.BatchSize,
	}
}

// PublishPending publishes one batch and returns how many events were marked published.
// It stops at the first failure so events leave in the order they were stored.
// An event may be published twice if marking fails; consumers must be idempotent.
func (r *OutboxRelay) PublishPending(ctx context.Context) (int, error) {
	events, err := r.outbox.FetchPending(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch pending events: %w", err)
	}

	published := 0
	for _, e := range events {
		if err := r.queue.PublishEvent(ctx, e.Message()); err != nil {
			metrics.OutboxEventsTotal.WithLabelValues(metrics.StatusError).Inc()
			return published, fmt.Errorf("publish event %s: %w", e.ID, err)
		}
		if err := r.outbox.MarkPublished(ctx, e.ID); err != nil {
			return published, fmt.Errorf("mark event %s published: %w", e.ID, err)
		}
		metrics.OutboxEventsTotal.WithLabelValues(metrics.StatusPublished).Inc()
		published++
	}

	return published, nil
}

// Run publishes pending events every PollInterval until ctx is cancelled.
func (r *OutboxRelay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		n, err := r.PublishPending(ctx)
		if err != nil && ctx.Err() == nil {
			slog.Error("outbox relay pass failed", "published", n, "error", err)
		} else if n > 0 {
			slog.Info("outbox events published", "count", n)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
