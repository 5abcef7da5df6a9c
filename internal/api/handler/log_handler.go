package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/melrifa1/no1-service-tracker/internal/core/ports"
)

// LogHandler handles HTTP requests for service log operations.
type LogHandler struct {
	service ports.LogService
}

func NewLogHandler(service ports.LogService) *LogHandler {
	return &LogHandler{service: service}
}

// Create handles POST /v1/logs.
//
// @Summary      Record a completed service
// @Tags         logs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createLogRequest  true  "Service log entry"
// @Success      201   {object}  domain.ServiceLog
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/logs [post]
func (h *LogHandler) Create(c echo.Context) error {
	actorID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createLogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	target := uuid.Nil
	if req.UserID != "" {
		target, err = uuid.Parse(req.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "user_id must be a uuid")
		}
	}

	created, err := h.service.CreateLog(c.Request().Context(), ports.CreateLogInput{
		ActorID:     actorID,
		ActorRole:   role,
		UserID:      target,
		ServedAt:    req.ServedAt,
		Qty:         req.Qty,
		TipCents:    req.TipCents,
		AmountCents: req.AmountCents,
		PaymentType: req.PaymentType,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

// List handles GET /v1/logs.
//
// @Summary      List service logs
// @Tags         logs
// @Produce      json
// @Security     BearerAuth
// @Param        from     query     string  false  "Start of served_at range (RFC3339, inclusive)"
// @Param        to       query     string  false  "End of served_at range (RFC3339, inclusive)"
// @Param        user_id  query     string  false  "Scope to one user (admins only)"
// @Param        page     query     int     false  "1-based page number"
// @Param        limit    query     int     false  "Rows per page (max 100, default 20)"
// @Success      200      {object}  listLogsResponse
// @Failure      400      {object}  errorResponse
// @Failure      401      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /v1/logs [get]
func (h *LogHandler) List(c echo.Context) error {
	actorID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	from, err := timeParam(c, "from")
	if err != nil {
		return err
	}
	to, err := timeParam(c, "to")
	if err != nil {
		return err
	}
	userID, err := uuidParam(c, "user_id")
	if err != nil {
		return err
	}
	page, err := intParam(c, "page")
	if err != nil {
		return err
	}
	limit, err := intParam(c, "limit")
	if err != nil {
		return err
	}

	result, err := h.service.ListLogs(c.Request().Context(), ports.ListLogsInput{
		ActorID:   actorID,
		ActorRole: role,
		UserID:    userID,
		From:      from,
		To:        to,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listLogsResponse{
		Items:      result.Items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}
