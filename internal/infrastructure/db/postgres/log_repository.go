package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/melrifa1/no1-service-tracker/internal/core/domain"
	"github.com/melrifa1/no1-service-tracker/internal/core/ports"
)

// serviceLogRow is the storage shape of one recorded service. Rows are
// insert-only; the composite index serves the range queries of listing,
// reports, and export.
type serviceLogRow struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_service_logs_user_served"`
	ServedAt    time.Time `gorm:"not null;index:idx_service_logs_user_served"`
	Qty         int       `gorm:"not null;check:qty > 0"`
	TipCents    int64     `gorm:"not null;default:0;check:tip_cents >= 0"`
	AmountCents int64     `gorm:"not null;default:0;check:amount_cents >= 0"`
	PaymentType string    `gorm:"size:10;not null;default:'Cash';check:payment_type IN ('Cash','Credit')"`
	CreatedAt   time.Time `gorm:"not null"`

	User userRow `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (serviceLogRow) TableName() string { return "service_logs" }

func (r serviceLogRow) toDomain() *domain.ServiceLog {
	return &domain.ServiceLog{
		ID:          r.ID,
		UserID:      r.UserID,
		ServedAt:    r.ServedAt,
		Qty:         r.Qty,
		TipCents:    r.TipCents,
		AmountCents: r.AmountCents,
		PaymentType: domain.PaymentType(r.PaymentType),
		CreatedAt:   r.CreatedAt,
	}
}

// ServiceLogRepository persists service logs in PostgreSQL.
type ServiceLogRepository struct {
	db *gorm.DB
}

func NewServiceLogRepository(db *gorm.DB) *ServiceLogRepository {
	return &ServiceLogRepository{db: db}
}

func (r *ServiceLogRepository) Insert(ctx context.Context, log *domain.ServiceLog) (*domain.ServiceLog, error) {
	row := serviceLogRow{
		ID:          log.ID,
		UserID:      log.UserID,
		ServedAt:    log.ServedAt,
		Qty:         log.Qty,
		TipCents:    log.TipCents,
		AmountCents: log.AmountCents,
		PaymentType: string(log.PaymentType),
		CreatedAt:   log.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		// The owner vanished between the service check and the insert.
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, domain.ErrUserNotFound
		}
		return nil, wrapErr("insert log", err)
	}

	return row.toDomain(), nil
}

func (r *ServiceLogRepository) List(ctx context.Context, filter ports.ListLogsFilter) ([]*domain.ServiceLog, int64, error) {
	base := applyLogFilter(r.db.WithContext(ctx).Model(&serviceLogRow{}), filter).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, wrapErr("count logs", err)
	}

	var rows []serviceLogRow
	err := base.
		Order("served_at ASC, created_at ASC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, wrapErr("list logs", err)
	}

	logs := make([]*domain.ServiceLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, row.toDomain())
	}
	return logs, total, nil
}

func (r *ServiceLogRepository) SumByUser(ctx context.Context, filter ports.ListLogsFilter) ([]ports.UserTotals, error) {
	totals := make([]ports.UserTotals, 0)
	err := applyLogFilter(r.db.WithContext(ctx).Model(&serviceLogRow{}), filter).
		Select(`users.id AS user_id,
			users.username,
			users.service_percentage,
			COUNT(*) AS log_count,
			COALESCE(SUM(service_logs.qty), 0) AS qty_sum,
			COALESCE(SUM(service_logs.tip_cents), 0) AS tip_cents_sum,
			COALESCE(SUM(service_logs.amount_cents), 0) AS amount_cents_sum`).
		Joins("JOIN users ON users.id = service_logs.user_id").
		Group("users.id, users.username, users.service_percentage").
		Order("users.username ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, wrapErr("sum logs by user", err)
	}
	return totals, nil
}

func (r *ServiceLogRepository) ListForExport(ctx context.Context, filter ports.ListLogsFilter) ([]ports.ExportRow, error) {
	rows := make([]ports.ExportRow, 0)
	err := applyLogFilter(r.db.WithContext(ctx).Model(&serviceLogRow{}), filter).
		Select(`service_logs.served_at,
			users.username,
			users.service_percentage,
			service_logs.qty,
			service_logs.tip_cents,
			service_logs.amount_cents,
			service_logs.payment_type`).
		Joins("JOIN users ON users.id = service_logs.user_id").
		Order("service_logs.served_at ASC, service_logs.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapErr("list logs for export", err)
	}
	return rows, nil
}

// applyLogFilter narrows a query to the filter's user and served_at range.
// Both range bounds are inclusive.
func applyLogFilter(q *gorm.DB, filter ports.ListLogsFilter) *gorm.DB {
	if filter.UserID != uuid.Nil {
		q = q.Where("service_logs.user_id = ?", filter.UserID)
	}
	if !filter.From.IsZero() {
		q = q.Where("service_logs.served_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("service_logs.served_at <= ?", filter.To)
	}
	return q
}
