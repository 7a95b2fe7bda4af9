package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/om-adella-promo/internal/countdown"
)

// CountdownHandler serves the time left until Target.
type CountdownHandler struct {
	Target   time.Time
	Clock    func() time.Time // nil means time.Now
	Interval time.Duration    // stream tick; zero means one second
}

type countdownResponse struct {
	countdown.Remaining
	Target time.Time `json:"target"`
}

// Snapshot returns the current breakdown as JSON.
func (h *CountdownHandler) Snapshot(c echo.Context) error {
	cd := countdown.New(h.Target, h.Clock)
	return c.JSON(http.StatusOK, countdownResponse{Remaining: cd.Next(), Target: cd.Target()})
}

// Stream sends the breakdown as server-sent events: a "tick" event every
// interval, then a single "elapsed" event, after which the stream ends.
// The countdown stops when the client goes away.
func (h *CountdownHandler) Stream(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)

	cd := countdown.New(h.Target, h.Clock)
	for r := range countdown.Watch(c.Request().Context(), cd, h.Interval) {
		event := "tick"
		if r.Elapsed {
			event = "elapsed"
		}
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event, data); err != nil {
			return nil // client went away
		}
		res.Flush()
	}
	return nil
}
