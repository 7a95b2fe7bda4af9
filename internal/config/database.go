package config

import (
	"fmt"
	"strings"
)

// Supported database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// DatabaseConfig selects and addresses the store for captured locations.
// SQLite needs only Path; MySQL needs User, Host, Port and Name.
type DatabaseConfig struct {
	Driver string
	Path   string
	User   string
	Pass   string
	Host   string
	Port   string
	Name   string
}

// LoadDatabaseConfig reads DB_* variables.  The driver defaults to an
// embedded SQLite file so the service runs without external services.
func LoadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver: strings.ToLower(envStr("DB_DRIVER", DriverSQLite)),
		Path:   envStr("DB_PATH", "promo.db"),
		User:   envStr("DB_USER", ""),
		Pass:   envStr("DB_PASS", ""),
		Host:   envStr("DB_HOST", ""),
		Port:   envStr("DB_PORT", "3306"),
		Name:   envStr("DB_NAME", ""),
	}
}

// Validate reports the first missing or unsupported setting.
func (c DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.Path == "" {
			return fmt.Errorf("config: DB_PATH is required for %s", c.Driver)
		}
	case DriverMySQL:
		for key, v := range map[string]string{"DB_USER": c.User, "DB_HOST": c.Host, "DB_PORT": c.Port, "DB_NAME": c.Name} {
			if v == "" {
				return fmt.Errorf("config: %s is required for %s", key, c.Driver)
			}
		}
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.Driver)
	}
	return nil
}
