package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReportInput carries the filters for the earnings report. UserID narrows
// the report to one user (admin only; non-admins are always scoped to
// themselves by the service).
type ReportInput struct {
	ActorID   uuid.UUID
	ActorRole string
	UserID    uuid.UUID
	From      time.Time
	To        time.Time
}

// ReportRow is one user's aggregated earnings inside the report range.
// NetCents is the user's share of AmountCentsSum after applying their
// service percentage.
type ReportRow struct {
	UserID            uuid.UUID
	Username          string
	ServicePercentage int
	LogCount          int64
	QtySum            int64
	TipCentsSum       int64
	AmountCentsSum    int64
	NetCents          int64
}

// ReportTotals sums every row of a report.
type ReportTotals struct {
	LogCount       int64
	QtySum         int64
	TipCentsSum    int64
	AmountCentsSum int64
	NetCents       int64
}

// ReportResult is returned by Summarize. Rows are ordered by username
// ascending; an empty range yields an empty Rows slice and zero Totals.
type ReportResult struct {
	Rows   []ReportRow
	Totals ReportTotals
}

// ReportService defines the reporting use cases.
type ReportService interface {
	Summarize(ctx context.Context, input ReportInput) (*ReportResult, error)
	// ExportCSV renders the matching log rows as CSV. Admin only.
	ExportCSV(ctx context.Context, input ReportInput) ([]byte, error)
}
