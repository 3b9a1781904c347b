package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/odontolegal/forensic-api/internal/model"
	"github.com/odontolegal/forensic-api/internal/queue"
	"github.com/odontolegal/forensic-api/internal/repository"
	"github.com/odontolegal/forensic-api/internal/service"
)

// CaseHandler serves /api/caso.
type CaseHandler struct {
	Cases *repository.CaseRepo
	audit auditor
}

func NewCaseHandler(cases *repository.CaseRepo, pub service.EventPublisher) *CaseHandler {
	return &CaseHandler{Cases: cases, audit: auditor{pub: pub, resource: "caso"}}
}

type casePayload struct {
	Title         *string           `json:"title"`
	Description   *string           `json:"description"`
	Status        *model.CaseStatus `json:"status"`
	Location      *string           `json:"location"`
	OpenedAt      *string           `json:"openedAt"`
	ResponsibleID *string           `json:"responsibleId"`
}

func (p casePayload) apply(cs *model.Case) error {
	if p.Title != nil {
		cs.Title = *p.Title
	}
	if p.Description != nil {
		cs.Description = *p.Description
	}
	if p.Status != nil {
		cs.Status = *p.Status
	}
	if p.Location != nil {
		cs.Location = *p.Location
	}
	if p.OpenedAt != nil {
		t, err := parseOptionalDate("openedAt", *p.OpenedAt)
		if err != nil {
			return err
		}
		cs.OpenedAt = t
	}
	if p.ResponsibleID != nil {
		ref, err := optionalRef("responsibleId", p.ResponsibleID)
		if err != nil {
			return err
		}
		cs.ResponsibleID = ref
	}
	cs.Normalize()
	return cs.Validate()
}

// Create handles POST /api/caso.
func (h *CaseHandler) Create(c echo.Context) error {
	var p casePayload
	if err := c.Bind(&p); err != nil {
		return badRequest(c, "invalid body")
	}
	cs := &model.Case{}
	if err := p.apply(cs); err != nil {
		return fail(c, err, "caso", "")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Cases.Create(ctx, cs); err != nil {
		return fail(c, err, "caso", "")
	}
	h.audit.record(c, queue.ActionCreate, cs.ID, 0)
	return c.JSON(http.StatusCreated, cs)
}

// List handles GET /api/caso.
func (h *CaseHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	cases, err := h.Cases.List(ctx)
	if err != nil {
		return fail(c, err, "caso", "")
	}
	return c.JSON(http.StatusOK, cases)
}

// Get handles GET /api/caso/:id.
func (h *CaseHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, "caso", "")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	cs, err := h.Cases.GetByID(ctx, id)
	if err != nil {
		return fail(c, err, "caso", id)
	}
	return c.JSON(http.StatusOK, cs)
}

// Update handles PUT /api/caso/:id with partial semantics.
func (h *CaseHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, "caso", "")
	}
	var p casePayload
	if err := c.Bind(&p); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	cs, err := h.Cases.GetByID(ctx, id)
	if err != nil {
		return fail(c, err, "caso", id)
	}
	if err := p.apply(cs); err != nil {
		return fail(c, err, "caso", id)
	}
	if err := h.Cases.Update(ctx, cs); err != nil {
		return fail(c, err, "caso", id)
	}
	h.audit.record(c, queue.ActionUpdate, id, 0)
	return c.JSON(http.StatusOK, cs)
}

// Delete handles DELETE /api/caso/:id.
func (h *CaseHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, "caso", "")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Cases.Delete(ctx, id); err != nil {
		return fail(c, err, "caso", id)
	}
	h.audit.record(c, queue.ActionDelete, id, 0)
	return c.JSON(http.StatusOK, echo.Map{"message": "caso deleted", "id": id})
}

// DeleteAll handles DELETE /api/caso.
func (h *CaseHandler) DeleteAll(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	n, err := h.Cases.DeleteAll(ctx)
	if err != nil {
		return fail(c, err, "caso", "")
	}
	h.audit.record(c, queue.ActionDeleteAll, "", n)
	return c.JSON(http.StatusOK, echo.Map{"message": "all casos deleted", "deletedCount": n})
}
