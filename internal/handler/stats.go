package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/odontolegal/forensic-api/internal/repository"
	"github.com/odontolegal/forensic-api/internal/stats"
)

// StatsHandler serves the dashboard chart data.
type StatsHandler struct {
	Records *repository.DentalRecordRepo
}

func NewStatsHandler(records *repository.DentalRecordRepo) *StatsHandler {
	return &StatsHandler{Records: records}
}

// Dashboard handles GET /api/bancoodonto/stats?source=sample|store.  The
// sample source is the default and needs no database access.
func (h *StatsHandler) Dashboard(c echo.Context) error {
	switch source := c.QueryParam("source"); source {
	case "", "sample":
		return c.JSON(http.StatusOK, stats.BuildDashboard("sample", stats.Sample()))
	case "store":
		ctx, cancel := dbCtx(c)
		defer cancel()
		records, err := h.Records.List(ctx)
		if err != nil {
			return fail(c, err, "bancoodonto", "")
		}
		return c.JSON(http.StatusOK, stats.BuildDashboard("store", stats.FromRecords(records)))
	default:
		return badRequest(c, "source must be sample or store")
	}
}
