package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/om-adella-promo/internal/geo"
	"github.com/iliyamo/om-adella-promo/internal/middleware"
	"github.com/iliyamo/om-adella-promo/internal/repository"
)

// TicketClaimer marks a capture ticket as used.
type TicketClaimer interface {
	Claim(ctx context.Context, id string, ttl time.Duration) error
}

// LocationHandler accepts the single location report of a page load.
type LocationHandler struct {
	Capturer *geo.Capturer
	Tickets  TicketClaimer
}

type captureResponse struct {
	Status geo.Status `json:"status"`
	Source geo.Source `json:"source,omitempty"`
}

// Capture runs one capture attempt for the ticket presented with the request.
// The outcome is always reported with 200; only malformed requests, bad
// tickets and replays are rejected.
func (h *LocationHandler) Capture(c echo.Context) error {
	var report geo.DeviceReport
	if err := c.Bind(&report); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	id := middleware.TicketID(c)
	if id == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing capture ticket"})
	}
	ttl := time.Until(middleware.TicketExpiry(c))
	if err := h.Tickets.Claim(c.Request().Context(), id, ttl); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "location already captured for this page"})
		}
		c.Logger().Warnf("capture: claim ticket: %v", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "try again later"})
	}

	a := h.Capturer.Capture(c.Request().Context(), report, c.RealIP())
	return c.JSON(http.StatusOK, captureResponse{Status: a.Status(), Source: a.Source()})
}
