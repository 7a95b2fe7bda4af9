package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Health is a liveness probe.  It returns a plain text "ok" with 200.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// ReadyHandler reports the state of the optional backends.  Every backend is
// best-effort, so readiness never fails; the body tells operators what is
// degraded.
type ReadyHandler struct {
	DB    *sql.DB
	Redis *redis.Client
}

// Ready pings each configured backend with a short timeout.
func (h *ReadyHandler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	out := echo.Map{"store": "disabled", "redis": "disabled"}
	if h.DB != nil {
		out["store"] = probe(h.DB.PingContext(ctx))
	}
	if h.Redis != nil {
		out["redis"] = probe(h.Redis.Ping(ctx).Err())
	}
	return c.JSON(http.StatusOK, out)
}

func probe(err error) string {
	if err != nil {
		return "unavailable"
	}
	return "ok"
}
