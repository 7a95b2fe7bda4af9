package geo

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedLocator memoises network lookups in Redis, keyed by client IP.
// Only successful lookups are cached.  Redis errors never fail a lookup.
type CachedLocator struct {
	next   NetworkLocator
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewCachedLocator wraps next.  With a nil client it returns next unchanged.
func NewCachedLocator(next NetworkLocator, rdb *redis.Client, ttl time.Duration, prefix string) NetworkLocator {
	if rdb == nil {
		return next
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	if prefix == "" {
		prefix = "geo"
	}
	return &CachedLocator{next: next, rdb: rdb, ttl: ttl, prefix: prefix}
}

func (c *CachedLocator) key(ip string) string { return c.prefix + ":ip:" + ip }

// Locate returns the cached coordinates for ip or asks the wrapped locator.
func (c *CachedLocator) Locate(ctx context.Context, ip string) (Coordinates, error) {
	if ip != "" {
		bs, err := c.rdb.Get(ctx, c.key(ip)).Bytes()
		switch {
		case err == nil:
			var coords Coordinates
			if jsonErr := json.Unmarshal(bs, &coords); jsonErr == nil && coords.Valid() {
				return coords, nil
			}
		case !errors.Is(err, redis.Nil):
			log.Printf("geo-cache: get %s: %v", ip, err)
		}
	}

	coords, err := c.next.Locate(ctx, ip)
	if err != nil {
		return Coordinates{}, err
	}
	if ip != "" {
		if bs, jsonErr := json.Marshal(coords); jsonErr == nil {
			if setErr := c.rdb.SetEx(ctx, c.key(ip), bs, c.ttl).Err(); setErr != nil {
				log.Printf("geo-cache: set %s: %v", ip, setErr)
			}
		}
	}
	return coords, nil
}
