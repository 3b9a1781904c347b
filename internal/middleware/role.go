package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/odontolegal/forensic-api/internal/model"
)

// RoleSet is the set of roles allowed on one endpoint.
type RoleSet map[model.Role]bool

// Allow builds a RoleSet from roles.
func Allow(roles ...model.Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = true
	}
	return s
}

// Permits reports whether role belongs to the set.
func (s RoleSet) Permits(role model.Role) bool { return s[role] }

// Common permission sets.
var (
	AnyRole    = Allow(model.RoleAdmin, model.RoleExaminer, model.RoleAssistant)
	Examiners  = Allow(model.RoleAdmin, model.RoleExaminer)
	AdminsOnly = Allow(model.RoleAdmin)
)

// RequireRole returns a middleware that lets the request through only when
// the identity stored by JWTAuth has a role in allowed.  It never looks at
// the request body.  A missing identity is an authentication failure (401),
// a disallowed role a permission failure (403).
func RequireRole(allowed RoleSet) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := CurrentIdentity(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			if !allowed.Permits(id.Role) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
