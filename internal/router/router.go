package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/tour-booking/internal/handler"
)

// RegisterRoutes registers routes that sit outside the API group.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map GET /healthz to the Health handler so load balancers and
	// monitoring can verify that the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterBooking registers the tour and reservation endpoints under /api.
// Any middleware passed in (rate limiting, caching) applies to the whole
// group.  No route requires authentication.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/api", mw...)

	// ---- Tours ----
	g.GET("/tours", h.ListTours)
	g.POST("/tours", h.CreateTour)
	g.PUT("/tours/:id", h.UpdateTour)
	g.DELETE("/tours/:id", h.DeleteTour)

	// ---- Reservations ----
	g.POST("/reserve", h.ReserveTour)
	g.DELETE("/cancel/:reference", h.CancelReservation)
	g.GET("/reservations/:tourId", h.ListReservations)
}
