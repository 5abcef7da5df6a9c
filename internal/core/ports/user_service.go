package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/melrifa1/no1-service-tracker/internal/core/domain"
)

// CreateUserInput carries all data needed to create an account.
// ServicePercentage nil means the default of 100.
type CreateUserInput struct {
	ActorRole         string
	Username          string
	Password          string
	Role              string // empty defaults to user
	ServicePercentage *int
}

// UpdateUserInput carries a partial update of an account. Nil fields are
// left untouched.
type UpdateUserInput struct {
	ActorID           uuid.UUID
	ActorRole         string
	UserID            uuid.UUID
	Password          *string
	Role              *string
	IsActive          *bool
	ServicePercentage *int
}

// UserService defines account management use cases. Everything except
// GetUser is admin only.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	ListUsers(ctx context.Context, actorRole string) ([]*domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateUser(ctx context.Context, input UpdateUserInput) (*domain.User, error)
	// DeleteUser removes the account and cascades its logs. Admins cannot
	// delete themselves.
	DeleteUser(ctx context.Context, actorID uuid.UUID, actorRole string, userID uuid.UUID) error
}
