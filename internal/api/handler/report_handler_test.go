package handler

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/melrifa1/no1-service-tracker/internal/core/domain"
	"github.com/melrifa1/no1-service-tracker/internal/core/ports"
)

type stubReportService struct {
	summarizeFn func(ctx context.Context, input ports.ReportInput) (*ports.ReportResult, error)
	exportFn    func(ctx context.Context, input ports.ReportInput) ([]byte, error)
}

func (s *stubReportService) Summarize(ctx context.Context, input ports.ReportInput) (*ports.ReportResult, error) {
	return s.summarizeFn(ctx, input)
}

func (s *stubReportService) ExportCSV(ctx context.Context, input ports.ReportInput) ([]byte, error) {
	return s.exportFn(ctx, input)
}

func TestReportHandler_Summary_Success(t *testing.T) {
	e := newTestEcho()
	actorID := uuid.New()
	rowID := uuid.New()
	stub := &stubReportService{
		summarizeFn: func(ctx context.Context, input ports.ReportInput) (*ports.ReportResult, error) {
			if input.ActorID != actorID || input.ActorRole != domain.RoleAdmin {
				t.Fatalf("unexpected actor: %+v", input)
			}
			return &ports.ReportResult{
				Rows: []ports.ReportRow{{
					UserID:            rowID,
					Username:          "alice",
					ServicePercentage: 80,
					LogCount:          1,
					QtySum:            1,
					TipCentsSum:       500,
					AmountCentsSum:    5000,
					NetCents:          4000,
				}},
				Totals: ports.ReportTotals{LogCount: 1, QtySum: 1, TipCentsSum: 500, AmountCentsSum: 5000, NetCents: 4000},
			}, nil
		},
	}
	handler := NewReportHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, actorID, domain.RoleAdmin)

	if err := handler.Summary(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	rows, ok := resp["rows"].([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("expected one row, got %+v", resp["rows"])
	}
	row := rows[0].(map[string]any)
	if row["username"] != "alice" || row["net_cents"] != float64(4000) || row["user_id"] != rowID.String() {
		t.Fatalf("unexpected row: %+v", row)
	}
	totals, ok := resp["totals"].(map[string]any)
	if !ok || totals["net_cents"] != float64(4000) || totals["tip_cents_sum"] != float64(500) {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestReportHandler_Summary_EmptyRangeKeepsRowsArray(t *testing.T) {
	e := newTestEcho()
	stub := &stubReportService{
		summarizeFn: func(ctx context.Context, input ports.ReportInput) (*ports.ReportResult, error) {
			return &ports.ReportResult{}, nil
		},
	}
	handler := NewReportHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, uuid.New(), domain.RoleUser)

	if err := handler.Summary(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	// An empty range serializes rows as [] rather than null.
	if !strings.Contains(rec.Body.String(), `"rows":[]`) {
		t.Fatalf("expected empty rows array, got %s", rec.Body.String())
	}
}

func TestReportHandler_Summary_ForwardsRange(t *testing.T) {
	e := newTestEcho()
	scopeID := uuid.New()
	stub := &stubReportService{
		summarizeFn: func(ctx context.Context, input ports.ReportInput) (*ports.ReportResult, error) {
			if input.From.IsZero() || input.To.IsZero() || input.UserID != scopeID {
				t.Fatalf("expected parsed filters, got %+v", input)
			}
			return &ports.ReportResult{}, nil
		},
	}
	handler := NewReportHandler(stub)

	target := "/v1/reports?from=2024-01-01T00:00:00Z&to=2024-02-01T00:00:00Z&user_id=" + scopeID.String()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, uuid.New(), domain.RoleAdmin)

	if err := handler.Summary(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestReportHandler_Summary_RejectsBadRange(t *testing.T) {
	e := newTestEcho()
	stub := &stubReportService{
		summarizeFn: func(ctx context.Context, input ports.ReportInput) (*ports.ReportResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewReportHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports?from=January", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, uuid.New(), domain.RoleUser)

	err := handler.Summary(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestReportHandler_Export_Success(t *testing.T) {
	e := newTestEcho()
	payload := "served_at,username,qty,tip_cents,amount_cents,payment_type,net_cents\n" +
		"2024-01-10T14:00:00Z,alice,1,500,5000,Cash,4000\n"
	stub := &stubReportService{
		exportFn: func(ctx context.Context, input ports.ReportInput) ([]byte, error) {
			return []byte(payload), nil
		},
	}
	handler := NewReportHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/export", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, uuid.New(), domain.RoleAdmin)

	if err := handler.Export(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected text/csv, got %s", ct)
	}
	cd := rec.Header().Get(echo.HeaderContentDisposition)
	if !strings.HasPrefix(cd, `attachment; filename="service-report-`) || !strings.HasSuffix(cd, `.csv"`) {
		t.Fatalf("unexpected content disposition: %s", cd)
	}

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(records) != 2 || records[1][1] != "alice" || records[1][6] != "4000" {
		t.Fatalf("unexpected csv: %+v", records)
	}
}

func TestReportHandler_Export_Forbidden(t *testing.T) {
	e := newTestEcho()
	stub := &stubReportService{
		exportFn: func(ctx context.Context, input ports.ReportInput) ([]byte, error) {
			return nil, domain.ErrForbidden
		},
	}
	handler := NewReportHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/export", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, uuid.New(), domain.RoleUser)

	err := handler.Export(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
