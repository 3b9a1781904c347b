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

// DentalRecordHandler serves /api/bancoodonto.
type DentalRecordHandler struct {
	Records *repository.DentalRecordRepo
	audit   auditor
}

func NewDentalRecordHandler(records *repository.DentalRecordRepo, pub service.EventPublisher) *DentalRecordHandler {
	return &DentalRecordHandler{Records: records, audit: auditor{pub: pub, resource: "bancoodonto"}}
}

type dentalRecordPayload struct {
	Type                  *model.RecordType    `json:"type"`
	RegistrationDate      *string              `json:"registrationDate"`
	GeneralCharacteristic *string              `json:"generalCharacteristic"`
	Status                *model.RecordStatus  `json:"status"`
	DentitionType         *model.DentitionType `json:"dentitionType"`
	SpecificFeatures      *[]model.Feature     `json:"specificFeatures"`
	ArchRegion            *[]model.ArchRegion  `json:"archRegion"`
	FileURL               *string              `json:"fileUrl"`
}

// apply copies the supplied fields onto r and validates the result, file
// URL included.
func (p dentalRecordPayload) apply(r *model.DentalRecord) error {
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.RegistrationDate != nil {
		t, err := parseOptionalDate("registrationDate", *p.RegistrationDate)
		if err != nil {
			return err
		}
		r.RegistrationDate = t
	}
	if p.GeneralCharacteristic != nil {
		r.GeneralCharacteristic = strings.TrimSpace(*p.GeneralCharacteristic)
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.DentitionType != nil {
		r.DentitionType = *p.DentitionType
	}
	if p.SpecificFeatures != nil {
		r.SpecificFeatures = *p.SpecificFeatures
	}
	if p.ArchRegion != nil {
		r.ArchRegion = *p.ArchRegion
	}
	if p.FileURL != nil {
		r.FileURL = strings.TrimSpace(*p.FileURL)
	}
	r.Normalize()
	return r.Validate()
}

// Create handles POST /api/bancoodonto.
func (h *DentalRecordHandler) Create(c echo.Context) error {
	var p dentalRecordPayload
	if err := c.Bind(&p); err != nil {
		return badRequest(c, "invalid body")
	}
	r := &model.DentalRecord{}
	if err := p.apply(r); err != nil {
		return fail(c, err, "bancoodonto", "")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Records.Create(ctx, r); err != nil {
		return fail(c, err, "bancoodonto", "")
	}
	h.audit.record(c, queue.ActionCreate, r.ID, 0)
	return c.JSON(http.StatusCreated, r)
}

// List handles GET /api/bancoodonto.
func (h *DentalRecordHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	records, err := h.Records.List(ctx)
	if err != nil {
		return fail(c, err, "bancoodonto", "")
	}
	return c.JSON(http.StatusOK, records)
}

// Get handles GET /api/bancoodonto/:id.
func (h *DentalRecordHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, "bancoodonto", "")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	r, err := h.Records.GetByID(ctx, id)
	if err != nil {
		return fail(c, err, "bancoodonto", id)
	}
	return c.JSON(http.StatusOK, r)
}

// Update handles PUT /api/bancoodonto/:id.  The merged record is validated
// again, so a bad fileUrl is rejected on update as on create.
func (h *DentalRecordHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, "bancoodonto", "")
	}
	var p dentalRecordPayload
	if err := c.Bind(&p); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	r, err := h.Records.GetByID(ctx, id)
	if err != nil {
		return fail(c, err, "bancoodonto", id)
	}
	if err := p.apply(r); err != nil {
		return fail(c, err, "bancoodonto", id)
	}
	if err := h.Records.Update(ctx, r); err != nil {
		return fail(c, err, "bancoodonto", id)
	}
	h.audit.record(c, queue.ActionUpdate, id, 0)
	return c.JSON(http.StatusOK, r)
}

// Delete handles DELETE /api/bancoodonto/:id.
func (h *DentalRecordHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, err, "bancoodonto", "")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Records.Delete(ctx, id); err != nil {
		return fail(c, err, "bancoodonto", id)
	}
	h.audit.record(c, queue.ActionDelete, id, 0)
	return c.JSON(http.StatusOK, echo.Map{"message": "registro deleted", "id": id})
}

// DeleteAll handles DELETE /api/bancoodonto.
func (h *DentalRecordHandler) DeleteAll(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	n, err := h.Records.DeleteAll(ctx)
	if err != nil {
		return fail(c, err, "bancoodonto", "")
	}
	h.audit.record(c, queue.ActionDeleteAll, "", n)
	return c.JSON(http.StatusOK, echo.Map{"message": "all registros deleted", "deletedCount": n})
}
