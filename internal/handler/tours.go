package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/tour-booking/internal/middleware"
	"github.com/iliyamo/tour-booking/internal/queue"
)

// tourInput carries the descriptive fields shared by create and update.
type tourInput struct {
	Description string
	Date        string
	Cost        int
	Places      int
}

func readTourInput(p *params) (tourInput, error) {
	var (
		in  tourInput
		err error
	)
	if in.Description, err = p.str("description"); err != nil {
		return in, err
	}
	if in.Date, err = p.str("date"); err != nil {
		return in, err
	}
	if in.Cost, err = p.number("cost"); err != nil {
		return in, err
	}
	if in.Places, err = p.number("places"); err != nil {
		return in, err
	}
	return in, nil
}

// ListTours handles GET /api/tours and returns every tour with its current
// reservation count.
func (h *BookingHandler) ListTours(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Ledger.ListTours()})
}

// CreateTour handles POST /api/tours.  Parameters: id, description, date,
// cost, places.  Responds 201 with the new tour, or 409 when the id is
// taken.
func (h *BookingHandler) CreateTour(c echo.Context) error {
	p, err := readParams(c)
	if err != nil {
		return badRequest(c, err)
	}
	id, err := p.number("id")
	if err != nil {
		return badRequest(c, err)
	}
	in, err := readTourInput(p)
	if err != nil {
		return badRequest(c, err)
	}
	tour, err := h.Ledger.AddTour(id, in.Description, in.Date, in.Cost, in.Places)
	if err != nil {
		return fail(c, err, "Failed to create tour. Tour with this ID already exists.")
	}
	middleware.MarkMutated(c)
	h.Log.Info("tour created", zap.Int("tour_id", id), zap.Int("places", in.Places))
	h.publish(c, queue.NewBookingEvent(queue.TourCreated, id, "", ""))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Tour created successfully!",
		"tour":    tour,
	})
}

// UpdateTour handles PUT /api/tours/:id.  The reservation count is kept,
// even when the new capacity is lower than it.
func (h *BookingHandler) UpdateTour(c echo.Context) error {
	id, err := pathInt(c, "id")
	if err != nil {
		return badRequest(c, err)
	}
	p, err := readParams(c)
	if err != nil {
		return badRequest(c, err)
	}
	in, err := readTourInput(p)
	if err != nil {
		return badRequest(c, err)
	}
	tour, err := h.Ledger.EditTour(id, in.Description, in.Date, in.Cost, in.Places)
	if err != nil {
		return fail(c, err, "Failed to update tour. Tour not found.")
	}
	middleware.MarkMutated(c)

	fields := []zap.Field{zap.Int("tour_id", id), zap.Int("places", tour.Places), zap.Int("reserved", tour.Reserved)}
	if tour.Reserved > tour.Places {
		h.Log.Warn("tour capacity reduced below reservations", fields...)
	} else {
		h.Log.Info("tour updated", fields...)
	}
	h.publish(c, queue.NewBookingEvent(queue.TourUpdated, id, "", ""))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Tour updated successfully!",
		"tour":    tour,
	})
}

// DeleteTour handles DELETE /api/tours/:id.  Reservations made on the tour
// are not removed.
func (h *BookingHandler) DeleteTour(c echo.Context) error {
	id, err := pathInt(c, "id")
	if err != nil {
		return badRequest(c, err)
	}
	if err := h.Ledger.DeleteTour(id); err != nil {
		return fail(c, err, "Failed to delete tour. Tour not found.")
	}
	middleware.MarkMutated(c)
	h.Log.Info("tour deleted", zap.Int("tour_id", id))
	h.publish(c, queue.NewBookingEvent(queue.TourDeleted, id, "", ""))
	return c.JSON(http.StatusOK, echo.Map{"message": "Tour deleted successfully!"})
}
