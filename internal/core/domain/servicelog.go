package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PaymentType identifies how a customer settled a service.
type PaymentType string

const (
	PaymentCash   PaymentType = "Cash"
	PaymentCredit PaymentType = "Credit"
)

// Valid reports whether the payment type is one the system accepts.
func (p PaymentType) Valid() bool {
	return p == PaymentCash || p == PaymentCredit
}

var ErrLogNotFound = errors.New("service log not found")
var ErrValidation = errors.New("validation failed")

// servedAtSkew is how far into the future a served_at timestamp may sit,
// to absorb client clock drift.
const servedAtSkew = 5 * time.Minute

// ServiceLog records one completed service: what was done, when, and the
// money that changed hands. Monetary fields are integer cents. Logs are
// immutable once written and disappear only when their owner is deleted.
type ServiceLog struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	ServedAt    time.Time   `json:"served_at"`
	Qty         int         `json:"qty"`
	TipCents    int64       `json:"tip_cents"`
	AmountCents int64       `json:"amount_cents"`
	PaymentType PaymentType `json:"payment_type"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Validate checks the log against the recording rules. now anchors the
// served_at future bound.
func (l *ServiceLog) Validate(now time.Time) error {
	if l.ServedAt.IsZero() {
		return fmt.Errorf("%w: served_at is required", ErrValidation)
	}
	if l.ServedAt.After(now.Add(servedAtSkew)) {
		return fmt.Errorf("%w: served_at cannot be in the future", ErrValidation)
	}
	if l.Qty <= 0 {
		return fmt.Errorf("%w: qty must be greater than zero", ErrValidation)
	}
	if l.TipCents < 0 {
		return fmt.Errorf("%w: tip_cents cannot be negative", ErrValidation)
	}
	if l.AmountCents < 0 {
		return fmt.Errorf("%w: amount_cents cannot be negative", ErrValidation)
	}
	if !l.PaymentType.Valid() {
		return fmt.Errorf("%w: payment_type must be Cash or Credit", ErrValidation)
	}
	return nil
}

// NetCents applies a service percentage to a gross amount, rounding half
// a cent up. Percentage 100 returns the amount unchanged.
func NetCents(amountCents int64, percentage int) int64 {
	return (amountCents*int64(percentage) + 50) / 100
}
