package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/melrifa1/no1-service-tracker/internal/core/domain"
	"github.com/melrifa1/no1-service-tracker/internal/core/ports"
)

type stubLogService struct {
	createFn func(ctx context.Context, input ports.CreateLogInput) (*domain.ServiceLog, error)
	listFn   func(ctx context.Context, input ports.ListLogsInput) (*ports.ListLogsResult, error)
}

func (s *stubLogService) CreateLog(ctx context.Context, input ports.CreateLogInput) (*domain.ServiceLog, error) {
	return s.createFn(ctx, input)
}

func (s *stubLogService) ListLogs(ctx context.Context, input ports.ListLogsInput) (*ports.ListLogsResult, error) {
	return s.listFn(ctx, input)
}

// authedContext builds an echo context carrying the claims the Auth
// middleware would have set.
func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, actorID uuid.UUID, role string) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user_id", actorID.String())
	c.Set("username", "tester")
	c.Set("role", role)
	return c
}

func TestLogHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	actorID := uuid.New()
	stub := &stubLogService{
		createFn: func(ctx context.Context, input ports.CreateLogInput) (*domain.ServiceLog, error) {
			if input.ActorID != actorID || input.ActorRole != domain.RoleUser {
				t.Fatalf("unexpected actor: %s %s", input.ActorID, input.ActorRole)
			}
			if input.UserID != uuid.Nil {
				t.Fatalf("expected no explicit target, got %s", input.UserID)
			}
			if input.Qty != 2 || input.TipCents != 500 || input.AmountCents != 5000 {
				t.Fatalf("unexpected amounts: %+v", input)
			}
			return &domain.ServiceLog{
				ID:          uuid.New(),
				UserID:      actorID,
				ServedAt:    input.ServedAt,
				Qty:         input.Qty,
				TipCents:    input.TipCents,
				AmountCents: input.AmountCents,
				PaymentType: domain.PaymentCash,
			}, nil
		},
	}
	handler := NewLogHandler(stub)

	body := strings.NewReader(`{"served_at":"2024-01-10T14:00:00Z","qty":2,"tip_cents":500,"amount_cents":5000}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/logs", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, actorID, domain.RoleUser)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["qty"] != float64(2) || resp["payment_type"] != "Cash" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestLogHandler_Create_ForwardsTargetUser(t *testing.T) {
	e := newTestEcho()
	actorID := uuid.New()
	targetID := uuid.New()
	stub := &stubLogService{
		createFn: func(ctx context.Context, input ports.CreateLogInput) (*domain.ServiceLog, error) {
			if input.UserID != targetID {
				t.Fatalf("expected target %s, got %s", targetID, input.UserID)
			}
			return &domain.ServiceLog{ID: uuid.New(), UserID: targetID}, nil
		},
	}
	handler := NewLogHandler(stub)

	body := strings.NewReader(fmt.Sprintf(`{"user_id":%q,"served_at":"2024-01-10T14:00:00Z","qty":1,"amount_cents":1000}`, targetID))
	req := httptest.NewRequest(http.MethodPost, "/v1/logs", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, actorID, domain.RoleAdmin)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestLogHandler_Create_BadTargetUUID(t *testing.T) {
	e := newTestEcho()
	stub := &stubLogService{
		createFn: func(ctx context.Context, input ports.CreateLogInput) (*domain.ServiceLog, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewLogHandler(stub)

	body := strings.NewReader(`{"user_id":"not-a-uuid","served_at":"2024-01-10T14:00:00Z","qty":1}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/logs", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, uuid.New(), domain.RoleAdmin)

	err := handler.Create(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestLogHandler_Create_MissingClaims(t *testing.T) {
	e := newTestEcho()
	stub := &stubLogService{
		createFn: func(ctx context.Context, input ports.CreateLogInput) (*domain.ServiceLog, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewLogHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/logs", strings.NewReader(`{"qty":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Create(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestLogHandler_Create_NegativeQty(t *testing.T) {
	e := newTestEcho()
	stub := &stubLogService{
		createFn: func(ctx context.Context, input ports.CreateLogInput) (*domain.ServiceLog, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewLogHandler(stub)

	body := strings.NewReader(`{"served_at":"2024-01-10T14:00:00Z","qty":-2,"amount_cents":1000}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/logs", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, uuid.New(), domain.RoleUser)

	err := handler.Create(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
	if msg, ok := he.Message.(string); !ok || !strings.Contains(msg, "qty") {
		t.Fatalf("expected qty message, got %v", he.Message)
	}
}

func TestLogHandler_Create_ServiceForbidden(t *testing.T) {
	e := newTestEcho()
	stub := &stubLogService{
		createFn: func(ctx context.Context, input ports.CreateLogInput) (*domain.ServiceLog, error) {
			return nil, domain.ErrForbidden
		},
	}
	handler := NewLogHandler(stub)

	body := strings.NewReader(`{"served_at":"2024-01-10T14:00:00Z","qty":1,"amount_cents":1000}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/logs", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, uuid.New(), domain.RoleUser)

	err := handler.Create(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestLogHandler_List_Defaults(t *testing.T) {
	e := newTestEcho()
	actorID := uuid.New()
	stub := &stubLogService{
		listFn: func(ctx context.Context, input ports.ListLogsInput) (*ports.ListLogsResult, error) {
			if !input.From.IsZero() || !input.To.IsZero() {
				t.Fatalf("expected open range, got %v..%v", input.From, input.To)
			}
			if input.UserID != uuid.Nil || input.Page != 0 || input.Limit != 0 {
				t.Fatalf("expected zero-value filters, got %+v", input)
			}
			return &ports.ListLogsResult{
				Items:      []*domain.ServiceLog{{ID: uuid.New(), UserID: actorID, Qty: 1}},
				Total:      1,
				Page:       1,
				Limit:      20,
				TotalPages: 1,
			}, nil
		},
	}
	handler := NewLogHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/logs", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, actorID, domain.RoleUser)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total"] != float64(1) || resp["page"] != float64(1) || resp["total_pages"] != float64(1) {
		t.Fatalf("unexpected paging payload: %+v", resp)
	}
	items, ok := resp["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one item, got %+v", resp["items"])
	}
}

func TestLogHandler_List_ParsesQuery(t *testing.T) {
	e := newTestEcho()
	actorID := uuid.New()
	scopeID := uuid.New()
	stub := &stubLogService{
		listFn: func(ctx context.Context, input ports.ListLogsInput) (*ports.ListLogsResult, error) {
			wantFrom := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			wantTo := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
			if !input.From.Equal(wantFrom) || !input.To.Equal(wantTo) {
				t.Fatalf("unexpected range: %v..%v", input.From, input.To)
			}
			if input.UserID != scopeID || input.Page != 2 || input.Limit != 5 {
				t.Fatalf("unexpected filters: %+v", input)
			}
			return &ports.ListLogsResult{Page: 2, Limit: 5}, nil
		},
	}
	handler := NewLogHandler(stub)

	target := "/v1/logs?from=2024-01-01T00:00:00Z&to=2024-01-31T23:59:59Z&user_id=" + scopeID.String() + "&page=2&limit=5"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, actorID, domain.RoleAdmin)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLogHandler_List_RejectsBadTimestamp(t *testing.T) {
	e := newTestEcho()
	stub := &stubLogService{
		listFn: func(ctx context.Context, input ports.ListLogsInput) (*ports.ListLogsResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewLogHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/logs?from=yesterday", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, uuid.New(), domain.RoleUser)

	err := handler.List(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestLogHandler_List_RejectsBadPage(t *testing.T) {
	e := newTestEcho()
	stub := &stubLogService{
		listFn: func(ctx context.Context, input ports.ListLogsInput) (*ports.ListLogsResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewLogHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/logs?page=abc", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, uuid.New(), domain.RoleUser)

	err := handler.List(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
