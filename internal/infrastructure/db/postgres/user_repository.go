package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/melrifa1/no1-service-tracker/internal/core/domain"
)

// userRow is the storage shape of a user account.
type userRow struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username          string    `gorm:"size:100;not null;uniqueIndex"`
	PasswordHash      string    `gorm:"not null"`
	Role              string    `gorm:"size:20;not null;default:'user';check:role IN ('user','admin')"`
	IsActive          bool      `gorm:"not null;default:true"`
	ServicePercentage int       `gorm:"not null;default:100;check:service_percentage >= 0 AND service_percentage <= 100"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

func (userRow) TableName() string { return "users" }

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:                r.ID,
		Username:          r.Username,
		PasswordHash:      r.PasswordHash,
		Role:              r.Role,
		IsActive:          r.IsActive,
		ServicePercentage: r.ServicePercentage,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// UserRepository persists user accounts in PostgreSQL.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := userRow{
		ID:                user.ID,
		Username:          user.Username,
		PasswordHash:      user.PasswordHash,
		Role:              user.Role,
		IsActive:          user.IsActive,
		ServicePercentage: user.ServicePercentage,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, wrapErr("insert user", err)
	}

	return row.toDomain(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).First(&row, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, wrapErr("find user by username", err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, wrapErr("find user by id", err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	var rows []userRow
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, wrapErr("list users", err)
	}

	users := make([]*domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toDomain())
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	// Map form so false and zero values are written; username stays
	// immutable after creation.
	updates := map[string]any{
		"password_hash":      user.PasswordHash,
		"role":               user.Role,
		"is_active":          user.IsActive,
		"service_percentage": user.ServicePercentage,
		"updated_at":         user.UpdatedAt,
	}

	res := r.db.WithContext(ctx).Model(&userRow{}).Where("id = ?", user.ID).Updates(updates)
	if res.Error != nil {
		return nil, wrapErr("update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrUserNotFound
	}

	return r.FindByID(ctx, user.ID)
}

// Delete removes the user and all their service logs in one transaction.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&serviceLogRow{}).Error; err != nil {
			return wrapErr("delete user logs", err)
		}

		res := tx.Delete(&userRow{}, "id = ?", id)
		if res.Error != nil {
			return wrapErr("delete user", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}
