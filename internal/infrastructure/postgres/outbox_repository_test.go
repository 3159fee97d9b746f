package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
)

func TestOutboxRepository_FetchPending(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	eventID := uuid.New()
	videoID := uuid.New()
	payload := json.RawMessage(`{"resource_id":"r1","file_path":"raw/video"}`)

	mock.ExpectQuery("SELECT .* FROM outbox_events WHERE published_at IS NULL").
		WithArgs(50).
		WillReturnRows(pgxmock.NewRows([]string{"id", "aggregate_id", "event_type", "payload", "occurred_at"}).
			AddRow(eventID, videoID, "video.media.created", payload, now))

	repo := NewOutboxRepository(mock)
	events, err := repo.FetchPending(context.Background(), 50)
	if err != nil {
		t.Fatalf("FetchPending() unexpected error = %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("FetchPending() returned %d events, want 1", len(events))
	}
	e := events[0]
	if e.ID != eventID || e.AggregateID != videoID || e.EventType != "video.media.created" {
		t.Errorf("event = %+v", e)
	}
	if string(e.Payload) != string(payload) {
		t.Errorf("payload = %s, want %s", e.Payload, payload)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestOutboxRepository_MarkPublished(t *testing.T) {
	tests := []struct {
		name    string
		execErr error
		wantErr bool
	}{
		{"marks event", nil, false},
		{"database error", errors.New("connection refused"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer mock.Close()

			id := uuid.New()
			exec := mock.ExpectExec("UPDATE outbox_events SET published_at").
				WithArgs(id, pgxmock.AnyArg())
			if tt.execErr != nil {
				exec.WillReturnError(tt.execErr)
			} else {
				exec.WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			}

			err = NewOutboxRepository(mock).MarkPublished(context.Background(), id)
			if (err != nil) != tt.wantErr {
				t.Errorf("MarkPublished() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}
