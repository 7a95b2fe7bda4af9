package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/om-adella-promo/internal/config"
)

const cacheHeader = "X-Cache"

// cachedResponse is what gets stored per key.
type cachedResponse struct {
	Status int         `json:"s"`
	Header http.Header `json:"h,omitempty"`
	Body   []byte      `json:"b"`
}

// bodyTap copies the response into buf, up to limit bytes, on its way to
// the client.
type bodyTap struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (t *bodyTap) WriteHeader(code int) {
	t.status = code
	t.ResponseWriter.WriteHeader(code)
}

func (t *bodyTap) Write(b []byte) (int, error) {
	if !t.overflow {
		if t.limit > 0 && t.buf.Len()+len(b) > t.limit {
			t.overflow = true
			t.buf.Reset()
		} else {
			t.buf.Write(b)
		}
	}
	return t.ResponseWriter.Write(b)
}

// cacheKeyFrom hashes the parts of the request selected by the strategy:
// route, method_route, method_route_query or route_query.  An empty
// strategy means route_query.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	strategy := strings.ToLower(cfg.KeyStrategy)

	var parts []string
	if strings.HasPrefix(strategy, "method_") {
		parts = append(parts, r.Method)
	}
	parts = append(parts, c.Path())
	if strategy == "" || strings.HasSuffix(strategy, "_query") {
		parts = append(parts, r.URL.RawQuery)
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "\x00")))
	return cfg.Prefix + ":" + hex.EncodeToString(sum[:])
}

func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	return json.Marshal(cachedResponse{Status: status, Header: header, Body: body})
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	var cr cachedResponse
	if err := json.Unmarshal(bs, &cr); err != nil || cr.Status == 0 {
		return 0, nil, nil, false
	}
	return cr.Status, cr.Header, cr.Body, true
}

func replay(c echo.Context, status int, header http.Header, body []byte) error {
	h := c.Response().Header()
	for k, vals := range header {
		if strings.EqualFold(k, echo.HeaderContentLength) {
			continue
		}
		h[k] = append([]string(nil), vals...)
	}
	h.Set(cacheHeader, "HIT")
	c.Response().WriteHeader(status)
	_, err := c.Response().Write(body)
	return err
}

// NewRedisCache stores 200 responses, headers included, in Redis and serves
// them back until the TTL expires.  Without Redis, or when disabled, every
// request passes through.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			key := cacheKeyFrom(cfg, c)

			if bs, err := rdb.Get(c.Request().Context(), key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					return replay(c, status, hdr, body)
				}
			} else if err != redis.Nil {
				c.Logger().Warnf("[cache] get key=%s: %v", key, err)
			}

			tap := &bodyTap{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = tap
			c.Response().Header().Set(cacheHeader, "MISS")
			if err := next(c); err != nil {
				return err
			}
			if tap.status != http.StatusOK || tap.overflow {
				return nil
			}

			hdr := c.Response().Header().Clone()
			hdr.Del(cacheHeader)
			payload, err := encodePayload(tap.status, hdr, tap.buf.Bytes())
			if err != nil {
				return nil
			}
			// The request context may already be cancelled once the body is written.
			if err := rdb.Set(context.Background(), key, payload, ttl).Err(); err != nil {
				c.Logger().Warnf("[cache] set key=%s: %v", key, err)
			}
			return nil
		}
	}
}
