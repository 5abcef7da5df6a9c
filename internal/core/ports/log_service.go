package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/melrifa1/no1-service-tracker/internal/core/domain"
)

// CreateLogInput carries all data needed to record a service log.
// Actor fields identify the authenticated caller; UserID is who the log
// belongs to (uuid.Nil = the actor themselves).
type CreateLogInput struct {
	ActorID     uuid.UUID
	ActorRole   string
	UserID      uuid.UUID
	ServedAt    time.Time
	Qty         int
	TipCents    int64
	AmountCents int64
	PaymentType string // empty defaults to Cash
}

// ListLogsInput carries all parameters for the log history endpoint.
type ListLogsInput struct {
	ActorID   uuid.UUID
	ActorRole string
	UserID    uuid.UUID // uuid.Nil: admins see everyone, users see themselves
	From      time.Time
	To        time.Time
	Page      int
	Limit     int
}

// ListLogsResult is returned by ListLogs.
type ListLogsResult struct {
	Items      []*domain.ServiceLog
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// LogService defines use-case operations for service logs.
type LogService interface {
	CreateLog(ctx context.Context, input CreateLogInput) (*domain.ServiceLog, error)
	ListLogs(ctx context.Context, input ListLogsInput) (*ListLogsResult, error)
}
