// Package handler holds the echo handlers for every resource mounted under
// /api.  Handlers bind and validate input, call a repository and map the
// outcome to an HTTP status; they keep no state between requests.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/odontolegal/forensic-api/internal/middleware"
	"github.com/odontolegal/forensic-api/internal/model"
	"github.com/odontolegal/forensic-api/internal/queue"
	"github.com/odontolegal/forensic-api/internal/repository"
	"github.com/odontolegal/forensic-api/internal/service"
)

const (
	dbTimeout      = 5 * time.Second
	publishTimeout = 3 * time.Second
)

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// parseID reads the :id path parameter and returns it in canonical form.
func parseID(c echo.Context) (string, error) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", &model.ValidationError{Field: "id", Value: raw, Message: "invalid id"}
	}
	return id.String(), nil
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"message": msg})
}

func notFound(c echo.Context, resource, id string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"message": fmt.Sprintf("%s not found with id=%s", resource, id)})
}

func forbidden(c echo.Context, msg string) error {
	return c.JSON(http.StatusForbidden, echo.Map{"error": msg})
}

// fail maps err to a response.  resource and id are used for the 404 body.
func fail(c echo.Context, err error, resource, id string) error {
	var ve *model.ValidationError
	var vs *model.ViolationsError
	switch {
	case errors.As(err, &ve):
		body := echo.Map{"message": ve.Message, "field": ve.Field}
		if ve.Value != "" {
			body["value"] = ve.Value
		}
		return c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &vs):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation failed", "errors": vs.Fields})
	case errors.Is(err, repository.ErrNotFound):
		return notFound(c, resource, id)
	case errors.Is(err, repository.ErrDuplicate):
		return c.JSON(http.StatusConflict, echo.Map{"message": resource + " already exists"})
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

// parseOptionalDate returns the zero time for an empty value.
func parseOptionalDate(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	t, err := model.ParseDate(value)
	if err != nil {
		return time.Time{}, &model.ValidationError{Field: field, Value: value, Message: "invalid date, expected YYYY-MM-DD or RFC 3339"}
	}
	return t, nil
}

// optionalRef trims an optional reference id and turns "" into nil.
func optionalRef(field string, p *string) (*string, error) {
	if p == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, &model.ValidationError{Field: field, Value: v, Message: "invalid id"}
	}
	s := id.String()
	return &s, nil
}

// auditor publishes audit events on behalf of a handler.
type auditor struct {
	pub      service.EventPublisher
	resource string
}

func (a auditor) record(c echo.Context, action queue.Action, id string, count int64) {
	ev := queue.AuditEvent{Resource: a.resource, Action: action, ID: id, Count: count}
	if who, ok := middleware.CurrentIdentity(c); ok {
		ev.ActorID = who.UserID
		ev.ActorRole = string(who.Role)
	}
	a.emit(c, ev)
}

func (a auditor) emit(c echo.Context, ev queue.AuditEvent) {
	if a.pub == nil {
		return
	}
	ev.Resource = a.resource
	ev.At = time.Now().UTC()
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := a.pub.Publish(ctx, ev); err != nil {
		c.Logger().Warnf("audit %s %s: %v", a.resource, ev.Action, err)
	}
}
