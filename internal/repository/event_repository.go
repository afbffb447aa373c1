// Package repository contains data access logic separated from HTTP
// handlers.  Ledger state is held in memory; the only table written here
// is the booking audit trail fed by the queue consumer.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/tour-booking/internal/queue"
)

// EventRepo persists consumed booking events to the booking_events table.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns an EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// EnsureSchema creates the booking_events table when it does not exist.
func (r *EventRepo) EnsureSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS booking_events (
		id          CHAR(36)     NOT NULL PRIMARY KEY,
		type        VARCHAR(32)  NOT NULL,
		tour_id     INT          NOT NULL,
		reference   VARCHAR(255) NULL,
		name        VARCHAR(255) NULL,
		occurred_at DATETIME     NOT NULL,
		recorded_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_booking_events_tour (tour_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// Record inserts one event.  Redelivered events are ignored by the
// primary key.  Empty reference and name are stored as NULL.
func (r *EventRepo) Record(ctx context.Context, ev queue.BookingEvent) error {
	occurred, err := time.Parse(time.RFC3339, ev.OccurredAt)
	if err != nil {
		occurred = time.Now().UTC()
	}
	const q = `INSERT IGNORE INTO booking_events (id, type, tour_id, reference, name, occurred_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		ev.ID, ev.Type,
		ev.TourID,
		sql.NullString{String: ev.Reference, Valid: ev.Reference != ""},
		sql.NullString{String: ev.Name, Valid: ev.Name != ""},
		occurred.UTC(),
	)
	return err
}
