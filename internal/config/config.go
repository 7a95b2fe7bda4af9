package config // package config loads application configuration from environment variables

import (
	"time"
)

// Config holds the core runtime configuration.  Each field corresponds to an
// environment variable; concern-specific settings live in their own
// Load*Config functions.
type Config struct {
	Env               string        // application environment (e.g. "dev", "prod")
	Port              string        // HTTP port to listen on
	PublicURL         string        // absolute URL of the page, encoded in the QR code
	CaptureSecret     string        // HMAC secret used to sign capture tickets
	CaptureTicketTTL  time.Duration // lifetime of a capture ticket issued with the page
	AdminPasswordHash string        // bcrypt hash guarding the admin listing; empty disables it
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	port := must("APP_PORT")
	return Config{
		Env:               must("APP_ENV"),
		Port:              port,
		PublicURL:         envStr("PUBLIC_URL", "http://localhost:"+port),
		CaptureSecret:     must("CAPTURE_SECRET"),
		CaptureTicketTTL:  envDur("CAPTURE_TICKET_TTL", 10*time.Minute),
		AdminPasswordHash: envStr("ADMIN_PASSWORD_HASH", ""),
	}
}

// IsDev reports whether the service runs in a development environment.
func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "development" || c.Env == "local"
}
