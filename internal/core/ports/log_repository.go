package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/melrifa1/no1-service-tracker/internal/core/domain"
)

// ListLogsFilter carries all query parameters for listing service logs.
// The user scope is always enforced by the service layer (RBAC).
type ListLogsFilter struct {
	UserID uuid.UUID // uuid.Nil = no user filter (admin); otherwise scoped to one user
	From   time.Time // optional: served_at >= From
	To     time.Time // optional: served_at <= To
	Page   int       // 1-based
	Limit  int       // max rows per page (capped at 100 by service)
}

// UserTotals is one aggregation row: everything a user logged inside a
// date range, summed.
type UserTotals struct {
	UserID            uuid.UUID
	Username          string
	ServicePercentage int
	LogCount          int64
	QtySum            int64
	TipCentsSum       int64
	AmountCentsSum    int64
}

// ExportRow is one log joined with its owner, as it appears in the CSV
// export.
type ExportRow struct {
	ServedAt          time.Time
	Username          string
	ServicePercentage int
	Qty               int
	TipCents          int64
	AmountCents       int64
	PaymentType       domain.PaymentType
}

// ServiceLogRepository defines persistence operations for service logs.
type ServiceLogRepository interface {
	Insert(ctx context.Context, log *domain.ServiceLog) (*domain.ServiceLog, error)
	// List returns a page of logs matching filter and the total count,
	// ordered by served_at then created_at ascending.
	List(ctx context.Context, filter ListLogsFilter) ([]*domain.ServiceLog, int64, error)
	// SumByUser aggregates log totals per user inside the filter's date
	// range, ordered by username ascending. Users without logs in range
	// do not appear. Paging fields on the filter are ignored.
	SumByUser(ctx context.Context, filter ListLogsFilter) ([]UserTotals, error)
	// ListForExport returns every log matching the filter joined with its
	// owner's username and percentage, ordered by served_at then created_at.
	// Paging fields are ignored.
	ListForExport(ctx context.Context, filter ListLogsFilter) ([]ExportRow, error)
}
