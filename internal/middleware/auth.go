// Package middleware provides the per-request gates shared by the routes:
// best-effort identity resolution from the session cookie, the login gate,
// the role gate and the public response cache.
package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ravelor/dealer-inventory/internal/auth"
	"github.com/ravelor/dealer-inventory/internal/flash"
	"github.com/ravelor/dealer-inventory/internal/model"
)

// Context keys set by ResolveIdentity.
const (
	ctxIdentity = "identity"
	ctxLoggedIn = "logged_in"
)

// loginPath is where every gate sends callers it turns away.
const loginPath = "/account/login"

// ResolveIdentity decodes the session cookie, when present, and attaches
// the identity snapshot to the request context. Decode failures are
// non-fatal: the cookie is cleared and the request continues
// unauthenticated, so a later role gate rejects it cleanly. This must run
// before any gate.
func ResolveIdentity(codec *auth.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(auth.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			ident, err := codec.Decode(cookie.Value)
			if err != nil {
				// expired and tampered tokens are handled the same
				// way but logged distinguishably
				if errors.Is(err, auth.ErrTokenExpired) {
					log.Printf("session: expired token cleared")
				} else {
					log.Printf("session: invalid token cleared")
				}
				auth.ClearSessionCookie(c)
				return next(c)
			}
			c.Set(ctxIdentity, ident)
			c.Set(ctxLoggedIn, true)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity resolved for this request, if any.
func IdentityFrom(c echo.Context) (model.Identity, bool) {
	ident, ok := c.Get(ctxIdentity).(model.Identity)
	return ident, ok
}

// LoggedIn reports whether ResolveIdentity authenticated this request.
func LoggedIn(c echo.Context) bool {
	v, ok := c.Get(ctxLoggedIn).(bool)
	return ok && v
}

// RequireLogin redirects unauthenticated callers to the login page with a
// notice.
func RequireLogin(notices *flash.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !LoggedIn(c) {
				notices.Add(c, "Please log in.")
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
			return next(c)
		}
	}
}

// RequireRole admits only callers whose resolved role is a member of the
// given set. Unauthenticated callers and disallowed roles get the same
// redirect-to-login treatment.
func RequireRole(notices *flash.Store, roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := IdentityFrom(c)
			if !ok || !allowed[ident.Role] {
				notices.Add(c, "Please log in.")
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
			return next(c)
		}
	}
}
