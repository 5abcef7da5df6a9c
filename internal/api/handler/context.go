package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ctxClaims extracts the auth claims injected by the Auth middleware.
// Role must be non-empty and user_id must parse as a uuid; tokens that
// fail either check are rejected with 401 before any service call.
func ctxClaims(c echo.Context) (actorID uuid.UUID, role string, err error) {
	role, _ = c.Get("role").(string)
	if role == "" {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	raw, _ := c.Get("user_id").(string)
	actorID, parseErr := uuid.Parse(raw)
	if parseErr != nil {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "token missing user identity")
	}

	return actorID, role, nil
}

// timeParam parses an optional RFC3339 query parameter. Absent → zero time.
func timeParam(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, name+" must be an RFC3339 timestamp")
	}
	return t, nil
}

// uuidParam parses an optional uuid query parameter. Absent → uuid.Nil.
func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a uuid")
	}
	return id, nil
}

// intParam parses an optional integer query parameter. Absent → 0.
func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return n, nil
}
