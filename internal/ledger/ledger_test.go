package ledger

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tour-booking/internal/model"
)

func tourByID(t *testing.T, l *Ledger, id int) model.Tour {
	t.Helper()
	tour, err := l.GetTour(id)
	require.NoError(t, err)
	return tour
}

func TestNewSeededLedger_DefaultTours(t *testing.T) {
	l := NewSeededLedger()

	tours := l.ListTours()
	require.Len(t, tours, 3)
	assert.Equal(t, model.Tour{ID: 123, Description: "Whale Watching", Date: "2025-01-20", Cost: 4500, Places: 8}, tours[0])
	assert.Equal(t, model.Tour{ID: 124, Description: "Mountain Hiking", Date: "2025-01-21", Cost: 3000, Places: 10}, tours[1])
	assert.Equal(t, model.Tour{ID: 125, Description: "City Tour", Date: "2025-01-20", Cost: 2000, Places: 15}, tours[2])
}

func TestSeed_SkipsExisting(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.CreateTour(123, "Private charter", "2025-03-01", 9000, 2))

	l.Seed()

	tours := l.ListTours()
	require.Len(t, tours, 3)
	assert.Equal(t, "Private charter", tours[0].Description)
}

func TestListTours_ReturnsSnapshot(t *testing.T) {
	l := NewSeededLedger()

	tours := l.ListTours()
	tours[0].Reserved = 99

	assert.Equal(t, 0, tourByID(t, l, 123).Reserved)
}

func TestReserveTour_Success(t *testing.T) {
	l := NewSeededLedger()

	require.NoError(t, l.ReserveTour("R1", "Alice", 123))

	assert.Equal(t, 1, tourByID(t, l, 123).Reserved)
	assert.Equal(t, []model.Reservation{{Reference: "R1", Name: "Alice"}}, l.GetReservationsByTour(123))
}

func TestReserveTour_DuplicateCountsOnce(t *testing.T) {
	l := NewSeededLedger()

	require.NoError(t, l.ReserveTour("R1", "Alice", 123))
	err := l.ReserveTour("R1", "Alice", 123)

	assert.ErrorIs(t, err, ErrDuplicateReservation)
	assert.Equal(t, 1, tourByID(t, l, 123).Reserved)
	assert.Len(t, l.GetReservationsByTour(123), 1)
}

func TestReserveTour_UnknownTour(t *testing.T) {
	l := NewSeededLedger()

	err := l.ReserveTour("R1", "Alice", 999)

	assert.ErrorIs(t, err, ErrTourNotFound)
	assert.Empty(t, l.GetReservationsByTour(999))
	assert.ErrorIs(t, l.CancelReservation("R1"), ErrReservationNotFound)
}

func TestReserveTour_FillsToCapacity(t *testing.T) {
	l := NewSeededLedger()

	require.NoError(t, l.ReserveTour("R1", "Alice", 123))
	for i := 2; i <= 8; i++ {
		require.NoError(t, l.ReserveTour(fmt.Sprintf("R%d", i), "Bob", 123), "reservation %d", i)
	}
	err := l.ReserveTour("R9", "Bob", 123)

	assert.ErrorIs(t, err, ErrTourFull)
	tour := tourByID(t, l, 123)
	assert.Equal(t, 8, tour.Reserved)
	assert.Equal(t, 0, tour.Available())
	assert.Len(t, l.GetReservationsByTour(123), 8)
	assert.ErrorIs(t, l.CancelReservation("R9"), ErrReservationNotFound)
}

func TestReserveTour_ZeroPlaces(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.CreateTour(1, "Closed", "2025-01-01", 0, 0))

	assert.ErrorIs(t, l.ReserveTour("R1", "Alice", 1), ErrTourFull)
}

func TestReserveTour_InvariantHoldsAfterEverySuccess(t *testing.T) {
	l := NewSeededLedger()

	for i := 0; i < 40; i++ {
		tourID := 123 + i%3
		if err := l.ReserveTour(fmt.Sprintf("G%d", i), "guest", tourID); err != nil {
			assert.ErrorIs(t, err, ErrTourFull)
			continue
		}
		tour := tourByID(t, l, tourID)
		assert.GreaterOrEqual(t, tour.Reserved, 0)
		assert.LessOrEqual(t, tour.Reserved, tour.Places)
		assert.Len(t, l.GetReservationsByTour(tourID), tour.Reserved)
	}
}

func TestCancelReservation_ReleasesPlace(t *testing.T) {
	l := NewSeededLedger()
	require.NoError(t, l.ReserveTour("R1", "Alice", 124))
	require.NoError(t, l.ReserveTour("R2", "Bob", 124))

	require.NoError(t, l.CancelReservation("R1"))

	assert.Equal(t, 1, tourByID(t, l, 124).Reserved)
	assert.Equal(t, []model.Reservation{{Reference: "R2", Name: "Bob"}}, l.GetReservationsByTour(124))
}

func TestCancelReservation_ThenReserveAgain(t *testing.T) {
	l := NewSeededLedger()
	require.NoError(t, l.ReserveTour("R1", "Alice", 123))
	require.NoError(t, l.CancelReservation("R1"))

	require.NoError(t, l.ReserveTour("R1", "Alice", 123))

	assert.Equal(t, 1, tourByID(t, l, 123).Reserved)
}

func TestCancelReservation_FreesSlotOnFullTour(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.CreateTour(1, "Tiny", "2025-01-01", 10, 1))
	require.NoError(t, l.ReserveTour("R1", "Alice", 1))
	require.ErrorIs(t, l.ReserveTour("R2", "Bob", 1), ErrTourFull)

	require.NoError(t, l.CancelReservation("R1"))

	assert.NoError(t, l.ReserveTour("R2", "Bob", 1))
}

func TestCancelReservation_Unknown(t *testing.T) {
	l := NewSeededLedger()
	require.NoError(t, l.ReserveTour("R1", "Alice", 123))

	assert.ErrorIs(t, l.CancelReservation("NOPE"), ErrReservationNotFound)
	assert.Equal(t, 1, tourByID(t, l, 123).Reserved)
	assert.NoError(t, l.CancelReservation("R1"))
}

func TestCancelReservation_Twice(t *testing.T) {
	l := NewSeededLedger()
	require.NoError(t, l.ReserveTour("R1", "Alice", 123))
	require.NoError(t, l.CancelReservation("R1"))

	assert.ErrorIs(t, l.CancelReservation("R1"), ErrReservationNotFound)
	assert.Equal(t, 0, tourByID(t, l, 123).Reserved)
}

func TestSameReferenceOnTwoTours(t *testing.T) {
	l := NewSeededLedger()
	require.NoError(t, l.ReserveTour("R1", "Alice", 124))
	require.NoError(t, l.ReserveTour("R1", "Alice", 123))

	// Lowest tour ID is scanned first.
	require.NoError(t, l.CancelReservation("R1"))
	assert.Equal(t, 0, tourByID(t, l, 123).Reserved)
	assert.Equal(t, 1, tourByID(t, l, 124).Reserved)

	// The lookup entry is gone, so the booking on 124 can no longer be cancelled.
	assert.ErrorIs(t, l.CancelReservation("R1"), ErrReservationNotFound)
	assert.Equal(t, []model.Reservation{{Reference: "R1", Name: "Alice"}}, l.GetReservationsByTour(124))
	assert.Equal(t, 1, tourByID(t, l, 124).Reserved)
}

func TestDeleteTour_KeepsReservations(t *testing.T) {
	l := NewSeededLedger()
	require.NoError(t, l.ReserveTour("R1", "Alice", 123))

	require.NoError(t, l.DeleteTour(123))

	for _, tour := range l.ListTours() {
		assert.NotEqual(t, 123, tour.ID)
	}
	assert.Equal(t, []model.Reservation{{Reference: "R1", Name: "Alice"}}, l.GetReservationsByTour(123))
	assert.ErrorIs(t, l.ReserveTour("R2", "Bob", 123), ErrTourNotFound)
	assert.ErrorIs(t, l.ReserveTour("R1", "Alice", 123), ErrDuplicateReservation)
}

func TestCancelReservation_DeletedTourIsPartialMutation(t *testing.T) {
	l := NewSeededLedger()
	require.NoError(t, l.ReserveTour("R1", "Alice", 123))
	require.NoError(t, l.DeleteTour(123))

	assert.ErrorIs(t, l.CancelReservation("R1"), ErrReservationOrphaned)

	// The reference was dropped from both indexes despite the failure.
	assert.Empty(t, l.GetReservationsByTour(123))
	assert.ErrorIs(t, l.CancelReservation("R1"), ErrReservationNotFound)
}

func TestCancelReservation_DeletedTourThenLiveTour(t *testing.T) {
	l := NewSeededLedger()
	require.NoError(t, l.ReserveTour("R1", "Alice", 123))
	require.NoError(t, l.ReserveTour("R1", "Alice", 125))
	require.NoError(t, l.DeleteTour(123))

	require.NoError(t, l.CancelReservation("R1"))

	assert.Empty(t, l.GetReservationsByTour(123))
	assert.Empty(t, l.GetReservationsByTour(125))
	assert.Equal(t, 0, tourByID(t, l, 125).Reserved)
}

func TestDeleteTour_RecreateStartsEmpty(t *testing.T) {
	l := NewSeededLedger()
	require.NoError(t, l.ReserveTour("R1", "Alice", 123))
	require.NoError(t, l.DeleteTour(123))

	require.NoError(t, l.CreateTour(123, "Whale Watching", "2025-02-20", 4500, 8))

	assert.Equal(t, 0, tourByID(t, l, 123).Reserved)
	assert.Len(t, l.GetReservationsByTour(123), 1)
}

func TestDeleteTour_Unknown(t *testing.T) {
	l := NewSeededLedger()

	assert.ErrorIs(t, l.DeleteTour(999), ErrTourNotFound)
	assert.Len(t, l.ListTours(), 3)
}

func TestCreateTour(t *testing.T) {
	l := NewSeededLedger()

	assert.ErrorIs(t, l.CreateTour(123, "Again", "2025-01-01", 1, 1), ErrTourExists)
	require.NoError(t, l.CreateTour(200, "Kayaking", "2025-02-01", 1000, 5))

	tours := l.ListTours()
	require.Len(t, tours, 4)
	assert.Equal(t, model.Tour{ID: 200, Description: "Kayaking", Date: "2025-02-01", Cost: 1000, Places: 5}, tours[3])
}

func TestUpdateTour(t *testing.T) {
	l := NewSeededLedger()
	require.NoError(t, l.ReserveTour("R1", "Alice", 124))

	require.NoError(t, l.UpdateTour(124, "Ridge Hike", "2025-01-22", 3500, 12))

	assert.Equal(t, model.Tour{ID: 124, Description: "Ridge Hike", Date: "2025-01-22", Cost: 3500, Places: 12, Reserved: 1}, tourByID(t, l, 124))
	assert.ErrorIs(t, l.UpdateTour(999, "x", "y", 1, 1), ErrTourNotFound)
}

func TestUpdateTour_ShrinkBelowReservedIsAllowed(t *testing.T) {
	l := NewSeededLedger()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.ReserveTour(fmt.Sprintf("R%d", i), "guest", 125))
	}

	require.NoError(t, l.UpdateTour(125, "City Tour", "2025-01-20", 2000, 1))

	tour := tourByID(t, l, 125)
	assert.Equal(t, 3, tour.Reserved)
	assert.Equal(t, 1, tour.Places)
	assert.Equal(t, 0, tour.Available())
	assert.ErrorIs(t, l.ReserveTour("R9", "guest", 125), ErrTourFull)

	require.NoError(t, l.CancelReservation("R0"))
	assert.Equal(t, 2, tourByID(t, l, 125).Reserved)
}

func TestGetReservationsByTour_ReturnsCopy(t *testing.T) {
	l := NewSeededLedger()
	require.NoError(t, l.ReserveTour("R1", "Alice", 123))

	got := l.GetReservationsByTour(123)
	got[0].Name = "Mallory"

	assert.Equal(t, "Alice", l.GetReservationsByTour(123)[0].Name)
	assert.NotNil(t, l.GetReservationsByTour(124))
}

func TestGetTour_Unknown(t *testing.T) {
	l := NewSeededLedger()

	_, err := l.GetTour(999)

	assert.ErrorIs(t, err, ErrTourNotFound)
}

func TestReserveTour_ConcurrentLastPlace(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.CreateTour(1, "Sunset cruise", "2025-06-01", 5000, 5))

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- l.ReserveTour(fmt.Sprintf("C%d", i), "guest", 1)
		}(i)
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrTourFull)
	}
	assert.Equal(t, 5, ok)
	assert.Equal(t, 5, tourByID(t, l, 1).Reserved)
}

func TestDeleteTour_RecreateThenCancelOldReference(t *testing.T) {
	l := NewSeededLedger()
	require.NoError(t, l.ReserveTour("R1", "Alice", 123))
	require.NoError(t, l.DeleteTour(123))
	require.NoError(t, l.CreateTour(123, "Whale Watching", "2025-02-20", 4500, 8))

	// The old entry is still in 123's sequence, so cancelling it charges
	// the recreated tour, which never counted it.
	require.NoError(t, l.CancelReservation("R1"))

	assert.Equal(t, -1, tourByID(t, l, 123).Reserved)
	assert.Empty(t, l.GetReservationsByTour(123))
	assert.Equal(t, 9, tourByID(t, l, 123).Available())
}

func TestReleaseReservation_ReportsTour(t *testing.T) {
	l := NewSeededLedger()
	require.NoError(t, l.ReserveTour("R1", "Alice", 124))

	id, err := l.ReleaseReservation("R1")
	require.NoError(t, err)
	assert.Equal(t, 124, id)

	_, err = l.ReleaseReservation("R1")
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestReleaseReservation_OrphanedReportsDeletedTour(t *testing.T) {
	l := NewSeededLedger()
	require.NoError(t, l.CreateTour(0, "Free walk", "2025-01-22", 0, 3))
	require.NoError(t, l.ReserveTour("R1", "Alice", 0))
	require.NoError(t, l.DeleteTour(0))

	id, err := l.ReleaseReservation("R1")
	assert.ErrorIs(t, err, ErrReservationOrphaned)
	assert.Equal(t, 0, id)
	assert.Empty(t, l.GetReservationsByTour(0))
}

func TestAddAndEditTour_ReturnStoredTour(t *testing.T) {
	l := NewSeededLedger()
	require.NoError(t, l.ReserveTour("R1", "Alice", 125))

	added, err := l.AddTour(300, "Kayaking", "2025-02-01", 1000, 5)
	require.NoError(t, err)
	assert.Equal(t, tourByID(t, l, 300), added)

	edited, err := l.EditTour(125, "Old Town", "2025-01-23", 2500, 20)
	require.NoError(t, err)
	assert.Equal(t, model.Tour{ID: 125, Description: "Old Town", Date: "2025-01-23", Cost: 2500, Places: 20, Reserved: 1}, edited)

	_, err = l.EditTour(999, "x", "y", 1, 1)
	assert.ErrorIs(t, err, ErrTourNotFound)
	_, err = l.AddTour(300, "x", "y", 1, 1)
	assert.ErrorIs(t, err, ErrTourExists)
}
