package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/melrifa1/no1-service-tracker/internal/core/ports"
)

// ReportHandler handles HTTP requests for earnings reports.
type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// reportInput assembles the shared query parameters of both report routes.
func reportInput(c echo.Context) (ports.ReportInput, error) {
	actorID, role, err := ctxClaims(c)
	if err != nil {
		return ports.ReportInput{}, err
	}

	from, err := timeParam(c, "from")
	if err != nil {
		return ports.ReportInput{}, err
	}
	to, err := timeParam(c, "to")
	if err != nil {
		return ports.ReportInput{}, err
	}
	userID, err := uuidParam(c, "user_id")
	if err != nil {
		return ports.ReportInput{}, err
	}

	return ports.ReportInput{
		ActorID:   actorID,
		ActorRole: role,
		UserID:    userID,
		From:      from,
		To:        to,
	}, nil
}

// Summary handles GET /v1/reports.
//
// @Summary      Earnings report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from     query     string  false  "Start of served_at range (RFC3339, inclusive)"
// @Param        to       query     string  false  "End of served_at range (RFC3339, inclusive)"
// @Param        user_id  query     string  false  "Scope to one user (admins only)"
// @Success      200      {object}  reportResponse
// @Failure      400      {object}  errorResponse
// @Failure      401      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /v1/reports [get]
func (h *ReportHandler) Summary(c echo.Context) error {
	input, err := reportInput(c)
	if err != nil {
		return err
	}

	result, err := h.service.Summarize(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toReportResponse(result))
}

// Export handles GET /v1/reports/export.
//
// @Summary      Download the matching log rows as CSV
// @Tags         reports
// @Produce      text/csv
// @Security     BearerAuth
// @Param        from     query     string  false  "Start of served_at range (RFC3339, inclusive)"
// @Param        to       query     string  false  "End of served_at range (RFC3339, inclusive)"
// @Param        user_id  query     string  false  "Scope to one user"
// @Success      200      {string}  string  "CSV payload"
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /v1/reports/export [get]
func (h *ReportHandler) Export(c echo.Context) error {
	input, err := reportInput(c)
	if err != nil {
		return err
	}

	data, err := h.service.ExportCSV(c.Request().Context(), input)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("service-report-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv", data)
}
