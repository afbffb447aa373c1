package ledger

import "errors"

// Sentinel errors returned by Ledger operations.  Callers compare them
// with errors.Is; the HTTP layer maps each to a status code.
var (
	ErrTourNotFound         = errors.New("tour not found")
	ErrTourExists           = errors.New("tour already exists")
	ErrTourFull             = errors.New("tour is full")
	ErrDuplicateReservation = errors.New("reference already reserved on this tour")
	ErrReservationNotFound  = errors.New("reservation not found")

	// ErrReservationOrphaned is returned by CancelReservation when the
	// reference was known but its tour has since been deleted.  The
	// reference is removed from the lookup index even though no tour
	// counter was decremented.
	ErrReservationOrphaned = errors.New("reservation belongs to a deleted tour")
)
