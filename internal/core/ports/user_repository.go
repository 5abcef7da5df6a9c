package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/melrifa1/no1-service-tracker/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByUsername retrieves a user by exact username match.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// List returns all users ordered by created_at descending.
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	// Delete removes the user; their service logs go with them.
	Delete(ctx context.Context, id uuid.UUID) error
}
