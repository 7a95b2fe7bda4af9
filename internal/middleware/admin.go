package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/om-adella-promo/internal/utils"
)

// AdminUser is the only username accepted by AdminBasicAuth.
const AdminUser = "admin"

// AdminBasicAuth guards admin routes with HTTP basic auth against a bcrypt
// password hash.
func AdminBasicAuth(passwordHash string) echo.MiddlewareFunc {
	return echomw.BasicAuthWithConfig(echomw.BasicAuthConfig{
		Realm: "promo-admin",
		Validator: func(user, pass string, c echo.Context) (bool, error) {
			if subtle.ConstantTimeCompare([]byte(user), []byte(AdminUser)) != 1 {
				return false, nil
			}
			return utils.VerifyPassword(passwordHash, pass), nil
		},
	})
}
