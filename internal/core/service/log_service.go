package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/melrifa1/no1-service-tracker/internal/api/metrics"
	"github.com/melrifa1/no1-service-tracker/internal/core/domain"
	"github.com/melrifa1/no1-service-tracker/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type logService struct {
	logs  ports.ServiceLogRepository
	users ports.UserRepository
	log   zerolog.Logger
}

// NewLogService returns a LogService implementation.
func NewLogService(logs ports.ServiceLogRepository, users ports.UserRepository, log zerolog.Logger) ports.LogService {
	return &logService{logs: logs, users: users, log: log}
}

// CreateLog records one service. The target account defaults to the
// caller; only admins may record on behalf of someone else. Rows are
// written once and never updated.
func (s *logService) CreateLog(ctx context.Context, input ports.CreateLogInput) (*domain.ServiceLog, error) {
	target := input.UserID
	if target == uuid.Nil {
		target = input.ActorID
	}
	if target != input.ActorID && input.ActorRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	owner, err := s.users.FindByID(ctx, target)
	if err != nil {
		return nil, err
	}
	if owner.ID == input.ActorID && !owner.IsActive {
		return nil, domain.ErrUserInactive
	}

	paymentType := domain.PaymentType(input.PaymentType)
	if input.PaymentType == "" {
		paymentType = domain.PaymentCash
	}

	entry := &domain.ServiceLog{
		UserID:      target,
		ServedAt:    input.ServedAt,
		Qty:         input.Qty,
		TipCents:    input.TipCents,
		AmountCents: input.AmountCents,
		PaymentType: paymentType,
	}
	if err := entry.Validate(time.Now().UTC()); err != nil {
		return nil, err
	}

	created, err := s.logs.Insert(ctx, entry)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", target.String()).Msg("failed to insert service log")
		return nil, err
	}

	metrics.ServiceLogsCreatedTotal.WithLabelValues(string(created.PaymentType)).Inc()
	s.log.Info().
		Str("log_id", created.ID.String()).
		Str("user_id", created.UserID.String()).
		Int("qty", created.Qty).
		Int64("amount_cents", created.AmountCents).
		Msg("service log recorded")

	return created, nil
}

// ListLogs returns a page of history. Non-admins always see their own
// logs no matter what user filter they ask for.
func (s *logService) ListLogs(ctx context.Context, input ports.ListLogsInput) (*ports.ListLogsResult, error) {
	if err := validateRange(input.From, input.To); err != nil {
		return nil, err
	}

	scope := input.UserID
	if input.ActorRole != domain.RoleAdmin {
		scope = input.ActorID
	}

	page, limit := normalizePaging(input.Page, input.Limit)
	filter := ports.ListLogsFilter{
		UserID: scope,
		From:   input.From,
		To:     input.To,
		Page:   page,
		Limit:  limit,
	}

	items, total, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListLogsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func validateRange(from, to time.Time) error {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return fmt.Errorf("%w: from must not be after to", domain.ErrValidation)
	}
	return nil
}
