package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/om-adella-promo/internal/countdown"
	"github.com/iliyamo/om-adella-promo/internal/model"
	"github.com/iliyamo/om-adella-promo/internal/utils"
)

// PageHandler renders the promo page.  Every render issues a fresh capture
// ticket so the page can report the visitor location exactly once.
type PageHandler struct {
	Show          model.Show
	Page          model.Page
	TicketSecret  string
	TicketTTL     time.Duration
	DeviceTimeout time.Duration
	DeviceMaxAge  time.Duration
	Clock         func() time.Time // nil means time.Now
}

// pageView is the data handed to templates/index.html.
type pageView struct {
	Show            model.Show
	Page            model.Page
	Remaining       countdown.Remaining
	StartsAtISO     string
	Ticket          string
	DeviceTimeoutMs int64
	DeviceMaxAgeMs  int64
	Year            int
}

// Index renders the page.
func (h *PageHandler) Index(c echo.Context) error {
	ticket, err := utils.NewCaptureTicket(h.TicketSecret, h.TicketTTL)
	if err != nil {
		c.Logger().Errorf("page: issue capture ticket: %v", err)
		return c.String(http.StatusInternalServerError, "internal error")
	}

	cd := countdown.New(h.Show.StartsAt, h.Clock)
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Render(http.StatusOK, "index.html", pageView{
		Show:            h.Show,
		Page:            h.Page,
		Remaining:       cd.Next(),
		StartsAtISO:     h.Show.StartsAt.Format(time.RFC3339),
		Ticket:          ticket.Token,
		DeviceTimeoutMs: h.DeviceTimeout.Milliseconds(),
		DeviceMaxAgeMs:  h.DeviceMaxAge.Milliseconds(),
		Year:            h.Show.StartsAt.Year(),
	})
}
