package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/melrifa1/no1-service-tracker/internal/core/domain"
	"github.com/melrifa1/no1-service-tracker/internal/core/ports"
)

const minPasswordLen = 6

type userService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

// NewUserService returns a UserService implementation.
func NewUserService(repo ports.UserRepository, log zerolog.Logger) ports.UserService {
	return &userService{repo: repo, log: log}
}

func (s *userService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if input.ActorRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: role must be user or admin", domain.ErrValidation)
	}

	percentage := 100
	if input.ServicePercentage != nil {
		percentage = *input.ServicePercentage
	}
	if err := validatePercentage(percentage); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:          username,
		PasswordHash:      string(hash),
		Role:              role,
		IsActive:          true,
		ServicePercentage: percentage,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Str("role", created.Role).Msg("user created")
	return created, nil
}

func (s *userService) ListUsers(ctx context.Context, actorRole string) ([]*domain.User, error) {
	if actorRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx)
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateUser applies a partial update. Concurrent updates resolve
// last-writer-wins; there is no version check.
func (s *userService) UpdateUser(ctx context.Context, input ports.UpdateUserInput) (*domain.User, error) {
	if input.ActorRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	user, err := s.repo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Password != nil {
		if err := validatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if input.Role != nil {
		if !domain.ValidRole(*input.Role) {
			return nil, fmt.Errorf("%w: role must be user or admin", domain.ErrValidation)
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.ServicePercentage != nil {
		if err := validatePercentage(*input.ServicePercentage); err != nil {
			return nil, err
		}
		user.ServicePercentage = *input.ServicePercentage
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", updated.ID.String()).Msg("user updated")
	return updated, nil
}

func (s *userService) DeleteUser(ctx context.Context, actorID uuid.UUID, actorRole string, userID uuid.UUID) error {
	if actorRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	if actorID == userID {
		return fmt.Errorf("%w: admins cannot delete their own account", domain.ErrForbidden)
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID.String()).Msg("user deleted, service logs cascaded")
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}
	return nil
}

func validatePercentage(p int) error {
	if p < 0 || p > 100 {
		return fmt.Errorf("%w: service_percentage must be between 0 and 100", domain.ErrValidation)
	}
	return nil
}
