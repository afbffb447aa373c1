package handler // handler defines http handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/tour-booking/internal/ledger"
	"github.com/iliyamo/tour-booking/internal/queue"
)

// EventPublisher delivers booking events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event queue.BookingEvent) error
}

// BookingHandler adapts HTTP requests into Ledger calls and renders the
// outcome.  Successful mutations are logged and published as
// BookingEvents; a failed publish never fails the request.
type BookingHandler struct {
	Ledger    *ledger.Ledger // Ledger owns all tour and reservation state
	Publisher EventPublisher // Publisher receives an event per successful mutation
	Log       *zap.Logger
}

// NewBookingHandler constructs a BookingHandler and panics if the ledger is
// nil.  A nil publisher or logger is replaced by a no-op.
func NewBookingHandler(l *ledger.Ledger, pub EventPublisher, log *zap.Logger) *BookingHandler {
	if l == nil {
		panic("nil ledger passed to NewBookingHandler")
	}
	if pub == nil {
		pub = nopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingHandler{Ledger: l, Publisher: pub, Log: log}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, queue.BookingEvent) error { return nil }

// publish sends ev and logs, but otherwise ignores, any failure.
func (h *BookingHandler) publish(c echo.Context, ev queue.BookingEvent) {
	if err := h.Publisher.Publish(c.Request().Context(), ev); err != nil {
		h.Log.Warn("booking event not published",
			zap.String("event_id", ev.ID), zap.String("type", ev.Type), zap.Error(err))
	}
}

// statusFor maps ledger sentinel errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrTourNotFound), errors.Is(err, ledger.ErrReservationNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrTourExists),
		errors.Is(err, ledger.ErrTourFull),
		errors.Is(err, ledger.ErrDuplicateReservation),
		errors.Is(err, ledger.ErrReservationOrphaned):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// fail renders msg with the status matching err.
func fail(c echo.Context, err error, msg string) error {
	return c.JSON(statusFor(err), echo.Map{"error": msg})
}

// badRequest renders a 400 for a parameter problem.
func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
}

// params reads request parameters from a JSON body when the request
// declares one, and from the query string or form body otherwise.
type params struct {
	c    echo.Context
	body map[string]any
}

func readParams(c echo.Context) (*params, error) {
	p := &params{c: c}
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ctype, echo.MIMEApplicationJSON) && c.Request().ContentLength != 0 {
		dec := json.NewDecoder(c.Request().Body)
		dec.UseNumber()
		if err := dec.Decode(&p.body); err != nil {
			return nil, errors.New("invalid request body")
		}
	}
	return p, nil
}

// str returns the named parameter.  A parameter sent with an empty value
// is present; one that was not sent at all is an error.
func (p *params) str(name string) (string, error) {
	if v, ok := p.body[name]; ok {
		switch t := v.(type) {
		case string:
			return t, nil
		case json.Number:
			return t.String(), nil
		}
		return "", fmt.Errorf("invalid %s", name)
	}
	v := p.c.FormValue(name) // parses query string and form body
	if _, ok := p.c.Request().Form[name]; !ok {
		return "", fmt.Errorf("missing parameter: %s", name)
	}
	return v, nil
}

// number returns the named parameter parsed as a base-10 integer.
func (p *params) number(name string) (int, error) {
	s, err := p.str(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return n, nil
}

// pathInt parses an integer path parameter.
func pathInt(c echo.Context, name string) (int, error) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return n, nil
}
