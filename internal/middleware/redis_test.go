package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/om-adella-promo/internal/config"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func serve(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(echo.HeaderXRealIP, "203.0.113.5")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRedisCache_ReplaysShow(t *testing.T) {
	mr, rdb := newTestRedis(t)
	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}

	calls := 0
	e := echo.New()
	e.GET("/v1/show", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"title": "Pasar Rakyat Sesetan Bali"})
	}, NewRedisCache(cfg, rdb))

	first := serve(e, http.MethodGet, "/v1/show")
	if first.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first X-Cache = %q, want MISS", first.Header().Get("X-Cache"))
	}
	second := serve(e, http.MethodGet, "/v1/show")
	if second.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("second X-Cache = %q, want HIT", second.Header().Get("X-Cache"))
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
	if second.Code != http.StatusOK || second.Body.String() != first.Body.String() {
		t.Fatalf("replay = %d %q, want %d %q", second.Code, second.Body.String(), first.Code, first.Body.String())
	}
	if ct := second.Header().Get(echo.HeaderContentType); ct != first.Header().Get(echo.HeaderContentType) {
		t.Fatalf("replayed Content-Type = %q", ct)
	}

	if other := serve(e, http.MethodGet, "/v1/show?x=1"); other.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("different query X-Cache = %q, want MISS", other.Header().Get("X-Cache"))
	}

	mr.FastForward(2 * time.Minute)
	if again := serve(e, http.MethodGet, "/v1/show"); again.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("after TTL X-Cache = %q, want MISS", again.Header().Get("X-Cache"))
	}
}

func TestRedisCache_SkipsErrors(t *testing.T) {
	mr, rdb := newTestRedis(t)
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{http.MethodGet: true}, Prefix: "cache"}

	e := echo.New()
	e.GET("/v1/show", func(c echo.Context) error {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "down"})
	}, NewRedisCache(cfg, rdb))

	serve(e, http.MethodGet, "/v1/show")
	if keys := mr.Keys(); len(keys) != 0 {
		t.Fatalf("cached non-200 response under %v", keys)
	}
}

func TestTokenBucket_BlocksAfterCapacity(t *testing.T) {
	_, rdb := newTestRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}

	e := echo.New()
	e.POST("/v1/locations", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, NewTokenBucket(cfg, rdb))

	for i, want := range []int{1, 0} {
		rec := serve(e, http.MethodPost, "/v1/locations")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
		if got := rec.Header().Get("X-RateLimit-Remaining"); got != strconv.Itoa(want) {
			t.Fatalf("request %d remaining = %q, want %d", i, got, want)
		}
	}

	rec := serve(e, http.MethodPost, "/v1/locations")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", rec.Code)
	}
	secs, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	if err != nil || secs < 1 || secs > 3600 {
		t.Fatalf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/locations", nil)
	req.Header.Set(echo.HeaderXRealIP, "198.51.100.7")
	other := httptest.NewRecorder()
	e.ServeHTTP(other, req)
	if other.Code != http.StatusOK {
		t.Fatalf("other ip status = %d, want its own bucket", other.Code)
	}
}
