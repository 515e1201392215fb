package rbac

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ratehub/authcore/identity"
)

// identityKey is the echo context key under which the auth middleware stores
// the authenticated identity.
const identityKey = "identity"

// SetIdentity stores the authenticated identity on the request context for
// later role checks.
func SetIdentity(c echo.Context, ident *identity.Identity) {
	c.Set(identityKey, ident)
}

// IdentityFrom returns the authenticated identity from the request context,
// or nil when the request is anonymous.
func IdentityFrom(c echo.Context) *identity.Identity {
	ident, _ := c.Get(identityKey).(*identity.Identity)
	return ident
}

// RequireRole returns an Echo middleware that rejects requests whose
// authenticated identity does not hold the given role. It expects the auth
// middleware to have stored the identity via SetIdentity.
func RequireRole(role identity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident := IdentityFrom(c)
			if ident == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			if ident.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden: missing required role")
			}

			return next(c)
		}
	}
}
