package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/om-adella-promo/internal/utils"
)

// TicketHeader carries the capture ticket issued with the page.
const TicketHeader = "X-Capture-Ticket"

// Context keys set by CaptureTicket.
const (
	ctxTicketID  = "ticket_id"
	ctxTicketExp = "ticket_exp"
)

// CaptureTicket returns an Echo middleware that validates the capture ticket
// presented in the X-Capture-Ticket header (a "Bearer " prefix is tolerated)
// and stores its ID and expiry in the request context.
func CaptureTicket(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(strings.TrimPrefix(c.Request().Header.Get(TicketHeader), "Bearer "))
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing capture ticket"})
			}
			ticket, err := utils.ParseCaptureTicket(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid capture ticket"})
			}
			c.Set(ctxTicketID, ticket.ID)
			c.Set(ctxTicketExp, ticket.Exp)
			return next(c)
		}
	}
}
