package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/odontolegal/forensic-api/internal/utils"
)

// TokenVerifier decodes a raw bearer token into the caller's identity.
type TokenVerifier interface {
	Verify(raw string) (utils.Identity, error)
}

// bearerToken returns the token from the Authorization header, or "" when
// the header is missing or not a Bearer credential.
func bearerToken(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if auth == "" {
		return "", false
	}
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", true
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")), true
}

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// stores the verified identity in the request context.  Requests without a
// valid token never reach the handler and get 401.
func JWTAuth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, present := bearerToken(c)
			if !present || raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			id, err := v.Verify(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			setIdentity(c, id)
			return next(c)
		}
	}
}

// OptionalJWT behaves like JWTAuth when an Authorization header is sent and
// lets anonymous requests through otherwise.  A header carrying a bad token
// is still rejected.
func OptionalJWT(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, present := bearerToken(c)
			if !present {
				return next(c)
			}
			id, err := v.Verify(raw)
			if raw == "" || err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			setIdentity(c, id)
			return next(c)
		}
	}
}
