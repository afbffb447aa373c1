package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/tour-booking/internal/ledger"
	"github.com/iliyamo/tour-booking/internal/middleware"
	"github.com/iliyamo/tour-booking/internal/queue"
)

// ReserveTour handles POST /api/reserve.  Parameters: reference, name and
// tourId, from the query string, a form body or a JSON body.
func (h *BookingHandler) ReserveTour(c echo.Context) error {
	p, err := readParams(c)
	if err != nil {
		return badRequest(c, err)
	}
	reference, err := p.str("reference")
	if err != nil {
		return badRequest(c, err)
	}
	name, err := p.str("name")
	if err != nil {
		return badRequest(c, err)
	}
	tourID, err := p.number("tourId")
	if err != nil {
		return badRequest(c, err)
	}

	log := h.Log.With(zap.String("reference", reference), zap.Int("tour_id", tourID))
	if err := h.Ledger.ReserveTour(reference, name, tourID); err != nil {
		log.Info("reservation rejected", zap.Error(err))
		switch {
		case errors.Is(err, ledger.ErrDuplicateReservation):
			return fail(c, err, "Reservation failed! This booking reference already holds a place on the tour.")
		case errors.Is(err, ledger.ErrTourFull):
			return fail(c, err, "Reservation failed! Tour is full.")
		default:
			return fail(c, err, "Reservation failed! Invalid tour ID.")
		}
	}
	middleware.MarkMutated(c)
	log.Info("reservation created")
	h.publish(c, queue.NewBookingEvent(queue.ReservationCreated, tourID, reference, name))
	return c.JSON(http.StatusCreated, echo.Map{"message": "Reservation successful!"})
}

// CancelReservation handles DELETE /api/cancel/:reference.  A 409 means
// the reservation was dropped but its tour no longer exists.
func (h *BookingHandler) CancelReservation(c echo.Context) error {
	reference := c.Param("reference")
	// echo matches on the raw path when it holds escapes such as %2F
	if c.Request().URL.RawPath != "" {
		if r, err := url.PathUnescape(reference); err == nil {
			reference = r
		}
	}

	log := h.Log.With(zap.String("reference", reference))
	tourID, err := h.Ledger.ReleaseReservation(reference)
	if err != nil {
		if errors.Is(err, ledger.ErrReservationOrphaned) {
			middleware.MarkMutated(c)
			log.Warn("reservation released from deleted tour", zap.Int("tour_id", tourID), zap.Error(err))
			return fail(c, err, "Cancellation failed! The tour for this booking no longer exists.")
		}
		log.Info("cancellation rejected", zap.Error(err))
		return fail(c, err, "Cancellation failed! Booking reference not found.")
	}
	middleware.MarkMutated(c)
	log.Info("reservation cancelled", zap.Int("tour_id", tourID))
	h.publish(c, queue.NewBookingEvent(queue.ReservationCancelled, tourID, reference, ""))
	return c.JSON(http.StatusOK, echo.Map{"message": "Reservation canceled successfully!"})
}

// ListReservations handles GET /api/reservations/:tourId.  Unknown and
// deleted tours are not an error; the list is simply whatever the ledger
// still holds for that id.
func (h *BookingHandler) ListReservations(c echo.Context) error {
	tourID, err := pathInt(c, "tourId")
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": h.Ledger.GetReservationsByTour(tourID)})
}
