package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/odontolegal/forensic-api/internal/model"
	"github.com/odontolegal/forensic-api/internal/queue"
	"github.com/odontolegal/forensic-api/internal/repository"
	"github.com/odontolegal/forensic-api/internal/service"
)

// ReportHandler serves /api/laudo.  Users and Evidence are consulted only
// to check the optional references a report carries.
type ReportHandler struct {
	Reports  *repository.ReportRepo
	Users    *repository.UserRepo
	Evidence *repository.EvidenceRepo
	audit    auditor
}

func NewReportHandler(reports *repository.ReportRepo, users *repository.UserRepo, ev *repository.EvidenceRepo, pub service.EventPublisher) *ReportHandler {
	return &ReportHandler{Reports: reports, Users: users, Evidence: ev, audit: auditor{pub: pub, resource: "laudo"}}
}

type reportContentPayload struct {
	Introduction       *string `json:"introduction"`
	Methodology        *string `json:"methodology"`
	AnalysisAndResults *string `json:"analysisAndResults"`
	Conclusion         *string `json:"conclusion"`
}

type reportPayload struct {
	Title         *string               `json:"title"`
	ReportNumber  *string               `json:"reportNumber"`
	IssueDate     *string               `json:"issueDate"`
	ReportType    *model.ReportType     `json:"reportType"`
	Content       *reportContentPayload `json:"content"`
	ResponsibleID *string               `json:"responsibleId"`
	EvidenceID    *string               `json:"evidenceId"`
}

func setIf(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func (p reportPayload) apply(r *model.Report) error {
	setIf(&r.Title, p.Title)
	setIf(&r.ReportNumber, p.ReportNumber)
	if p.IssueDate != nil {
		t, err := parseOptionalDate("issueDate", *p.IssueDate)
		if err != nil {
			return err
		}
		r.IssueDate = t
	}
	if p.ReportType != nil {
		r.ReportType = *p.ReportType
	}
	if p.Content != nil {
		setIf(&r.Content.Introduction, p.Content.Introduction)
		setIf(&r.Content.Methodology, p.Content.Methodology)
		setIf(&r.Content.AnalysisAndResults, p.Content.AnalysisAndResults)
		setIf(&r.Content.Conclusion, p.Content.Conclusion)
	}
	if p.ResponsibleID != nil {
		ref, err := optionalRef("responsibleId", p.ResponsibleID)
		if err != nil {
			return err
		}
		r.ResponsibleID = ref
	}
	if p.EvidenceID != nil {
		ref, err := optionalRef("evidenceId", p.EvidenceID)
		if err != nil {
			return err
		}
		r.EvidenceID = ref
	}
	r.Normalize()
	return r.Validate()
}

// checkRefs verifies that linked user and evidence ids exist.
func (h *ReportHandler) checkRefs(c echo.Context, r *model.Report) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	if r.ResponsibleID != nil {
		if _, err := h.Users.GetByID(ctx, *r.ResponsibleID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &model.ValidationError{Field: "responsibleId", Value: *r.ResponsibleID, Message: "responsible user does not exist"}
			}
			return err
		}
	}
	if r.EvidenceID != nil {
		if _, err := h.Evidence.GetByID(ctx, *r.EvidenceID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &model.ValidationError{Field: "evidenceId", Value: *r.EvidenceID, Message: "evidence does not exist"}
			}
			return err
		}
	}
	return nil
}

func duplicateNumber(c echo.Context, number string) error {
	return c.JSON(http.StatusConflict, echo.Map{"message": fmt.Sprintf("report number %s already exists", number)})
}

// Create handles POST /api/laudo.
func (h *ReportHandler) Create(c echo.Context) error {
	var p reportPayload
	if err := c.Bind(&p); err != nil {
		return badRequest(c, "invalid body")
	}
	r := &model.Report{}
	if err := p.apply(r); err != nil {
		return fail(c, err, "laudo", "")
	}
	if err := h.checkRefs(c, r); err != nil {
		return fail(c, err, "laudo", "")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Reports.Create(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return duplicateNumber(c, r.ReportNumber)
		}
		return fail(c, err, "laudo", "")
	}
	h.audit.record(c, queue.ActionCreate, r.ID, 0)
	return c.JSON(http.StatusCreated, r)
}

// List handles GET /api/laudo.
func (h *ReportHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	reports, err := h.Reports.List(ctx)
	if err != nil {
		return fail(c, err, "laudo", "")
	}
	return c.JSON(http.StatusOK, reports)
}

// Get handles GET /api/laudo/:id.
func (h *ReportHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, "laudo", "")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	r, err := h.Reports.GetByID(ctx, id)
	if err != nil {
		return fail(c, err, "laudo", id)
	}
	return c.JSON(http.StatusOK, r)
}

// Update handles PUT /api/laudo/:id.
func (h *ReportHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, "laudo", "")
	}
	var p reportPayload
	if err := c.Bind(&p); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	r, err := h.Reports.GetByID(ctx, id)
	if err != nil {
		return fail(c, err, "laudo", id)
	}
	if err := p.apply(r); err != nil {
		return fail(c, err, "laudo", id)
	}
	if err := h.checkRefs(c, r); err != nil {
		return fail(c, err, "laudo", id)
	}
	if err := h.Reports.Update(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return duplicateNumber(c, r.ReportNumber)
		}
		return fail(c, err, "laudo", id)
	}
	h.audit.record(c, queue.ActionUpdate, id, 0)
	return c.JSON(http.StatusOK, r)
}

// Delete handles DELETE /api/laudo/:id.
func (h *ReportHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, "laudo", "")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Reports.Delete(ctx, id); err != nil {
		return fail(c, err, "laudo", id)
	}
	h.audit.record(c, queue.ActionDelete, id, 0)
	return c.JSON(http.StatusOK, echo.Map{"message": "laudo deleted", "id": id})
}

// DeleteAll handles DELETE /api/laudo.
func (h *ReportHandler) DeleteAll(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	n, err := h.Reports.DeleteAll(ctx)
	if err != nil {
		return fail(c, err, "laudo", "")
	}
	h.audit.record(c, queue.ActionDeleteAll, "", n)
	return c.JSON(http.StatusOK, echo.Map{"message": "all laudos deleted", "deletedCount": n})
}

// PDF handles GET /api/laudo/:id/pdf and streams the rendered document.
func (h *ReportHandler) PDF(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, "laudo", "")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	r, err := h.Reports.GetByID(ctx, id)
	if err != nil {
		return fail(c, err, "laudo", id)
	}
	var responsible *model.User
	if r.ResponsibleID != nil {
		u, err := h.Users.GetByID(ctx, *r.ResponsibleID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fail(c, err, "laudo", id)
		}
		responsible = u
	}
	doc, err := service.RenderReportPDF(r, responsible)
	if err != nil {
		return fail(c, err, "laudo", id)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", "laudo-"+r.ReportNumber+".pdf"))
	return c.Blob(http.StatusOK, "application/pdf", doc)
}
