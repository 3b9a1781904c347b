package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/odontolegal/forensic-api/internal/model"
	"github.com/odontolegal/forensic-api/internal/queue"
	"github.com/odontolegal/forensic-api/internal/repository"
	"github.com/odontolegal/forensic-api/internal/service"
)

// EvidenceHandler serves /api/evidencia.
type EvidenceHandler struct {
	Evidence *repository.EvidenceRepo
	audit    auditor
}

func NewEvidenceHandler(ev *repository.EvidenceRepo, pub service.EventPublisher) *EvidenceHandler {
	return &EvidenceHandler{Evidence: ev, audit: auditor{pub: pub, resource: "evidencia"}}
}

type evidencePayload struct {
	CaseID      *string             `json:"caseId"`
	Type        *model.EvidenceType `json:"type"`
	Description *string             `json:"description"`
	CollectedAt *string             `json:"collectedAt"`
	CollectedBy *string             `json:"collectedBy"`
	FileURL     *string             `json:"fileUrl"`
}

func (p evidencePayload) apply(e *model.Evidence) error {
	if p.CaseID != nil {
		ref, err := optionalRef("caseId", p.CaseID)
		if err != nil {
			return err
		}
		e.CaseID = ""
		if ref != nil {
			e.CaseID = *ref
		}
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Description != nil {
		e.Description = strings.TrimSpace(*p.Description)
	}
	if p.CollectedAt != nil {
		t, err := parseOptionalDate("collectedAt", *p.CollectedAt)
		if err != nil {
			return err
		}
		e.CollectedAt = t
	}
	if p.CollectedBy != nil {
		ref, err := optionalRef("collectedBy", p.CollectedBy)
		if err != nil {
			return err
		}
		e.CollectedBy = ref
	}
	if p.FileURL != nil {
		e.FileURL = strings.TrimSpace(*p.FileURL)
	}
	return e.Validate()
}

// Create handles POST /api/evidencia.
func (h *EvidenceHandler) Create(c echo.Context) error {
	var p evidencePayload
	if err := c.Bind(&p); err != nil {
		return badRequest(c, "invalid body")
	}
	e := &model.Evidence{}
	if err := p.apply(e); err != nil {
		return fail(c, err, "evidencia", "")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Evidence.Create(ctx, e); err != nil {
		return fail(c, err, "evidencia", "")
	}
	h.audit.record(c, queue.ActionCreate, e.ID, 0)
	return c.JSON(http.StatusCreated, e)
}

// List handles GET /api/evidencia, optionally filtered by ?caseId=.
func (h *EvidenceHandler) List(c echo.Context) error {
	caseID := strings.TrimSpace(c.QueryParam("caseId"))
	ctx, cancel := dbCtx(c)
	defer cancel()
	items, err := h.Evidence.List(ctx, caseID)
	if err != nil {
		return fail(c, err, "evidencia", "")
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/evidencia/:id.
func (h *EvidenceHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, "evidencia", "")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	e, err := h.Evidence.GetByID(ctx, id)
	if err != nil {
		return fail(c, err, "evidencia", id)
	}
	return c.JSON(http.StatusOK, e)
}

// Update handles PUT /api/evidencia/:id.
func (h *EvidenceHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, "evidencia", "")
	}
	var p evidencePayload
	if err := c.Bind(&p); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	e, err := h.Evidence.GetByID(ctx, id)
	if err != nil {
		return fail(c, err, "evidencia", id)
	}
	if err := p.apply(e); err != nil {
		return fail(c, err, "evidencia", id)
	}
	if err := h.Evidence.Update(ctx, e); err != nil {
		return fail(c, err, "evidencia", id)
	}
	h.audit.record(c, queue.ActionUpdate, id, 0)
	return c.JSON(http.StatusOK, e)
}

// Delete handles DELETE /api/evidencia/:id.
func (h *EvidenceHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, "evidencia", "")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Evidence.Delete(ctx, id); err != nil {
		return fail(c, err, "evidencia", id)
	}
	h.audit.record(c, queue.ActionDelete, id, 0)
	return c.JSON(http.StatusOK, echo.Map{"message": "evidencia deleted", "id": id})
}

// DeleteAll handles DELETE /api/evidencia.
func (h *EvidenceHandler) DeleteAll(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	n, err := h.Evidence.DeleteAll(ctx)
	if err != nil {
		return fail(c, err, "evidencia", "")
	}
	h.audit.record(c, queue.ActionDeleteAll, "", n)
	return c.JSON(http.StatusOK, echo.Map{"message": "all evidencias deleted", "deletedCount": n})
}
