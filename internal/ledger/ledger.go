// Package ledger holds the in-memory booking state: the ordered list of
// tours and the reservations made against them.  A Ledger is created
// explicitly, optionally seeded, and owned by the serving layer.
package ledger

import (
	"slices"
	"sync"

	"github.com/iliyamo/tour-booking/internal/model"
)

// Ledger owns all tour and reservation state.
//
// Reservations are owned by byTour, one append-ordered slice per tour
// ID.  byRef is a lookup from booking reference to the tour of its most
// recent reservation and is only consulted by CancelReservation.  The
// following behaviours are kept on purpose:
//   - a reference is unique per tour, not globally; reserving it on a
//     second tour overwrites byRef while the first entry stays in byTour
//   - DeleteTour leaves byTour and byRef untouched
//   - UpdateTour may shrink Places below Reserved
//
// A single mutex serialises every operation.
type Ledger struct {
	mu     sync.Mutex
	tours  []*model.Tour
	byTour map[int][]model.Reservation
	byRef  map[string]int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		byTour: make(map[int][]model.Reservation),
		byRef:  make(map[string]int),
	}
}

// ListTours returns a snapshot of all tours in insertion order.
func (l *Ledger) ListTours() []model.Tour {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Tour, 0, len(l.tours))
	for _, t := range l.tours {
		out = append(out, *t)
	}
	return out
}

// GetTour returns a copy of the tour with the given ID.
func (l *Ledger) GetTour(id int) (model.Tour, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t := l.findTour(id)
	if t == nil {
		return model.Tour{}, ErrTourNotFound
	}
	return *t, nil
}

// ReserveTour books one place on tourID for reference.  The duplicate
// check runs before the tour lookup, so a duplicate on a deleted tour
// still reports ErrDuplicateReservation.
func (l *Ledger) ReserveTour(reference, name string, tourID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if indexOf(l.byTour[tourID], reference) >= 0 {
		return ErrDuplicateReservation
	}
	t := l.findTour(tourID)
	if t == nil {
		return ErrTourNotFound
	}
	if t.Available() == 0 {
		return ErrTourFull
	}

	t.Reserved++
	l.byTour[tourID] = append(l.byTour[tourID], model.Reservation{Reference: reference, Name: name})
	l.byRef[reference] = tourID // last write wins across tours
	return nil
}

// CancelReservation releases the reservation held under reference.
// See ReleaseReservation.
func (l *Ledger) CancelReservation(reference string) error {
	_, err := l.ReleaseReservation(reference)
	return err
}

// ReleaseReservation cancels the reservation held under reference and
// reports the tour whose sequence lost it.
//
// The reference is dropped from the lookup index first.  Per-tour
// sequences are then scanned in ascending tour ID order and the first
// entry found is removed.  If that tour still exists its counter is
// decremented and the call succeeds; otherwise scanning continues.  The
// index removal is never undone, so a failed call may still have
// mutated state: on ErrReservationOrphaned the returned ID is the first
// deleted tour an entry was removed from.
func (l *Ledger) ReleaseReservation(reference string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.byRef[reference]; !ok {
		return 0, ErrReservationNotFound
	}
	delete(l.byRef, reference)

	ids := make([]int, 0, len(l.byTour))
	for id := range l.byTour {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	orphaned, orphanID := false, 0
	for _, id := range ids {
		seq := l.byTour[id]
		i := indexOf(seq, reference)
		if i < 0 {
			continue
		}
		l.byTour[id] = slices.Delete(seq, i, i+1)
		if t := l.findTour(id); t != nil {
			t.Reserved--
			return id, nil
		}
		if !orphaned {
			orphaned, orphanID = true, id
		}
	}
	if orphaned {
		return orphanID, ErrReservationOrphaned
	}
	return 0, ErrReservationNotFound
}

// GetReservationsByTour returns a copy of the reservations recorded for
// tourID, in booking order.  The result is never nil.  Reservations of a
// deleted tour are still returned.
func (l *Ledger) GetReservationsByTour(tourID int) []model.Reservation {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Reservation, len(l.byTour[tourID]))
	copy(out, l.byTour[tourID])
	return out
}

// CreateTour appends a new tour with no reservations.
func (l *Ledger) CreateTour(id int, description, date string, cost, places int) error {
	_, err := l.AddTour(id, description, date, cost, places)
	return err
}

// AddTour is CreateTour returning a copy of the stored tour.
func (l *Ledger) AddTour(id int, description, date string, cost, places int) (model.Tour, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.findTour(id) != nil {
		return model.Tour{}, ErrTourExists
	}
	t := &model.Tour{
		ID:          id,
		Description: description,
		Date:        date,
		Cost:        cost,
		Places:      places,
	}
	l.tours = append(l.tours, t)
	return *t, nil
}

// UpdateTour overwrites the descriptive fields and capacity of a tour.
// Reserved is left as is and is not checked against the new Places.
func (l *Ledger) UpdateTour(id int, description, date string, cost, places int) error {
	_, err := l.EditTour(id, description, date, cost, places)
	return err
}

// EditTour is UpdateTour returning a copy of the tour as updated.
func (l *Ledger) EditTour(id int, description, date string, cost, places int) (model.Tour, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t := l.findTour(id)
	if t == nil {
		return model.Tour{}, ErrTourNotFound
	}
	t.Description = description
	t.Date = date
	t.Cost = cost
	t.Places = places
	return *t, nil
}

// DeleteTour removes the tour from the list.  Its reservations remain in
// the indexes.
func (l *Ledger) DeleteTour(id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.IndexFunc(l.tours, func(t *model.Tour) bool { return t.ID == id })
	if i < 0 {
		return ErrTourNotFound
	}
	l.tours = slices.Delete(l.tours, i, i+1)
	return nil
}

// findTour must be called with mu held.
func (l *Ledger) findTour(id int) *model.Tour {
	for _, t := range l.tours {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func indexOf(seq []model.Reservation, reference string) int {
	return slices.IndexFunc(seq, func(r model.Reservation) bool { return r.Reference == reference })
}
