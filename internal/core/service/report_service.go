package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/melrifa1/no1-service-tracker/internal/api/metrics"
	"github.com/melrifa1/no1-service-tracker/internal/core/domain"
	"github.com/melrifa1/no1-service-tracker/internal/core/ports"
)

var exportHeader = []string{"served_at", "username", "qty", "tip_cents", "amount_cents", "payment_type", "net_cents"}

type reportService struct {
	logs ports.ServiceLogRepository
	log  zerolog.Logger
}

// NewReportService returns a ReportService implementation.
func NewReportService(logs ports.ServiceLogRepository, log zerolog.Logger) ports.ReportService {
	return &reportService{logs: logs, log: log}
}

// Summarize aggregates earnings per user over the requested range. The
// net column applies each user's service percentage to their amount sum,
// in integer cents, rounding half a cent up.
func (s *reportService) Summarize(ctx context.Context, input ports.ReportInput) (*ports.ReportResult, error) {
	if err := validateRange(input.From, input.To); err != nil {
		return nil, err
	}

	scope := input.UserID
	if input.ActorRole != domain.RoleAdmin {
		scope = input.ActorID
	}

	totals, err := s.logs.SumByUser(ctx, ports.ListLogsFilter{UserID: scope, From: input.From, To: input.To})
	if err != nil {
		return nil, err
	}

	result := &ports.ReportResult{Rows: make([]ports.ReportRow, 0, len(totals))}
	for _, t := range totals {
		net := domain.NetCents(t.AmountCentsSum, t.ServicePercentage)
		result.Rows = append(result.Rows, ports.ReportRow{
			UserID:            t.UserID,
			Username:          t.Username,
			ServicePercentage: t.ServicePercentage,
			LogCount:          t.LogCount,
			QtySum:            t.QtySum,
			TipCentsSum:       t.TipCentsSum,
			AmountCentsSum:    t.AmountCentsSum,
			NetCents:          net,
		})
		result.Totals.LogCount += t.LogCount
		result.Totals.QtySum += t.QtySum
		result.Totals.TipCentsSum += t.TipCentsSum
		result.Totals.AmountCentsSum += t.AmountCentsSum
		result.Totals.NetCents += net
	}

	metrics.ReportQueriesTotal.WithLabelValues(reportScope(input.ActorRole, scope)).Inc()
	return result, nil
}

// ExportCSV renders every matching log row as CSV with a header row.
// Monetary columns stay in integer cents.
func (s *reportService) ExportCSV(ctx context.Context, input ports.ReportInput) ([]byte, error) {
	if input.ActorRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if err := validateRange(input.From, input.To); err != nil {
		return nil, err
	}

	rows, err := s.logs.ListForExport(ctx, ports.ListLogsFilter{UserID: input.UserID, From: input.From, To: input.To})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("export csv: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.ServedAt.UTC().Format(time.RFC3339),
			r.Username,
			strconv.Itoa(r.Qty),
			strconv.FormatInt(r.TipCents, 10),
			strconv.FormatInt(r.AmountCents, 10),
			string(r.PaymentType),
			strconv.FormatInt(domain.NetCents(r.AmountCents, r.ServicePercentage), 10),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("export csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export csv: %w", err)
	}

	metrics.ReportQueriesTotal.WithLabelValues("export").Inc()
	s.log.Info().Int("rows", len(rows)).Msg("report exported")
	return buf.Bytes(), nil
}

func reportScope(role string, scope uuid.UUID) string {
	switch {
	case role != domain.RoleAdmin:
		return "self"
	case scope == uuid.Nil:
		return "all"
	default:
		return "user"
	}
}
