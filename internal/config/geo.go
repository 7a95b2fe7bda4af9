package config

import "time"

// GeoConfig configures both halves of location capture: the browser request
// parameters rendered into the page and the server-side IP fallback.
type GeoConfig struct {
	IPBaseURL     string
	IPTimeout     time.Duration
	DeviceTimeout time.Duration // how long the browser waits for a fix
	DeviceMaxAge  time.Duration // how stale a cached browser fix may be
	CacheTTL      time.Duration // lifetime of cached IP lookups in Redis
	CachePrefix   string
}

// LoadGeoConfig reads GEO_* variables.
func LoadGeoConfig() GeoConfig {
	return GeoConfig{
		IPBaseURL:     envStr("GEO_IP_BASE_URL", "https://ipapi.co"),
		IPTimeout:     envDur("GEO_IP_TIMEOUT", 5*time.Second),
		DeviceTimeout: envDur("GEO_DEVICE_TIMEOUT", 8*time.Second),
		DeviceMaxAge:  envDur("GEO_DEVICE_MAX_AGE", time.Minute),
		CacheTTL:      envDur("GEO_CACHE_TTL", time.Hour),
		CachePrefix:   envStr("GEO_CACHE_PREFIX", "geo"),
	}
}
