package router // package router defines how HTTP routes are registered for the service

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/om-adella-promo/internal/config"
	"github.com/iliyamo/om-adella-promo/internal/handler"
	"github.com/iliyamo/om-adella-promo/internal/middleware"
)

// RegisterRoutes registers the probes.  They never touch a backend except
// for the ping done by Ready.
func RegisterRoutes(e *echo.Echo, ready *handler.ReadyHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", ready.Ready)
}

// RegisterPage registers the HTML page and its printable artefacts.
func RegisterPage(e *echo.Echo, p *handler.PageHandler, promo *handler.PromoHandler) {
	e.GET("/", p.Index)
	e.GET("/flyer.pdf", promo.Flyer)
	e.GET("/qr.png", promo.QR)
}

// RegisterPublic registers the unauthenticated JSON API under /v1.  The show
// record goes through the Redis response cache; the countdown endpoints are
// time dependent and never cached.
func RegisterPublic(e *echo.Echo, s *handler.ShowHandler, cd *handler.CountdownHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/v1")
	g.GET("/show", s.GetShow, middleware.NewRedisCache(cacheCfg, rdb))
	g.GET("/countdown", cd.Snapshot)
	g.GET("/countdown/stream", cd.Stream)
}

// RegisterCapture registers the location capture endpoint.  The ticket
// middleware runs first so the rate limiter can key on the page load.
func RegisterCapture(e *echo.Echo, l *handler.LocationHandler, ticketSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.POST("/v1/locations", l.Capture,
		middleware.CaptureTicket(ticketSecret),
		middleware.NewTokenBucket(rlCfg, rdb),
	)
}

// RegisterAdmin registers the admin listing behind basic auth.  Nothing is
// registered when no password hash is configured.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, passwordHash string) {
	if passwordHash == "" {
		return
	}
	g := e.Group("/v1/admin", middleware.AdminBasicAuth(passwordHash))
	g.GET("/locations", a.ListLocations)
}
