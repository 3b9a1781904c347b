package middleware

// identity.go keeps the verified caller in the echo context.  Handlers and
// the rate limiter read it back through CurrentIdentity.

import (
	"github.com/labstack/echo/v4"

	"github.com/odontolegal/forensic-api/internal/utils"
)

const (
	ctxIdentity = "identity"
	ctxUserID   = "user_id"
	ctxRole     = "role"
)

func setIdentity(c echo.Context, id utils.Identity) {
	c.Set(ctxIdentity, id)
	c.Set(ctxUserID, id.UserID)
	c.Set(ctxRole, string(id.Role))
}

// CurrentIdentity returns the identity verified for this request, if any.
func CurrentIdentity(c echo.Context) (utils.Identity, bool) {
	id, ok := c.Get(ctxIdentity).(utils.Identity)
	return id, ok
}

// currentUserID returns the caller's id, or "anon" for anonymous requests.
func currentUserID(c echo.Context) string {
	if id, ok := CurrentIdentity(c); ok && id.UserID != "" {
		return id.UserID
	}
	return "anon"
}
