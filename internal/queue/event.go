// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// Event types published after successful ledger mutations.
const (
	ReservationCreated   = "reservation.created"
	ReservationCancelled = "reservation.cancelled"
	TourCreated          = "tour.created"
	TourUpdated          = "tour.updated"
	TourDeleted          = "tour.deleted"
)

// BookingEvent is published whenever the ledger changes.  It carries
// enough information for downstream consumers to log or notify without
// querying the service.  TourID is always set; zero is a valid tour ID.
type BookingEvent struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	TourID     int    `json:"tour_id"`
	Reference  string `json:"reference,omitempty"`
	Name       string `json:"name,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// NewBookingEvent stamps an event with a fresh ID and the current UTC time.
func NewBookingEvent(typ string, tourID int, reference, name string) BookingEvent {
	return BookingEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		TourID:     tourID,
		Reference:  reference,
		Name:       name,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
