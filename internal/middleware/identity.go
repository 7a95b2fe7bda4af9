package middleware

// identity.go defines helpers shared across middleware files and handlers.

import (
	"time"

	"github.com/labstack/echo/v4"
)

// TicketID returns the capture ticket ID stored by CaptureTicket, or "".
func TicketID(c echo.Context) string {
	if s, ok := c.Get(ctxTicketID).(string); ok {
		return s
	}
	return ""
}

// TicketExpiry returns the expiry of the current capture ticket, or the
// zero time when the request carried none.
func TicketExpiry(c echo.Context) time.Time {
	if t, ok := c.Get(ctxTicketExp).(time.Time); ok {
		return t
	}
	return time.Time{}
}

// visitorKey identifies the page load behind a request for rate limiting.
func visitorKey(c echo.Context) string {
	if id := TicketID(c); id != "" {
		return id
	}
	return "anon"
}
