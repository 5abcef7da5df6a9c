package handler

import (
	"time"

	"github.com/melrifa1/no1-service-tracker/internal/core/domain"
)

type createLogRequest struct {
	UserID      string    `json:"user_id"` // optional, admins may record for another user
	ServedAt    time.Time `json:"served_at"    validate:"required"`
	Qty         int       `json:"qty"          validate:"required,gt=0"`
	TipCents    int64     `json:"tip_cents"    validate:"min=0"`
	AmountCents int64     `json:"amount_cents" validate:"min=0"`
	PaymentType string    `json:"payment_type" validate:"omitempty,oneof=Cash Credit"`
}

type listLogsResponse struct {
	Items      []*domain.ServiceLog `json:"items"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}
