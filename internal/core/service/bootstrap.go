package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/melrifa1/no1-service-tracker/internal/api/metrics"
	"github.com/melrifa1/no1-service-tracker/internal/core/domain"
	"github.com/melrifa1/no1-service-tracker/internal/core/ports"
)

// BootstrapAdmin guarantees an admin account exists before the server
// starts taking requests. If the configured username already exists its
// password is reset and the account is forced back to an active admin;
// otherwise the account is created. Empty username and password skip the
// whole step.
func BootstrapAdmin(ctx context.Context, repo ports.UserRepository, username, password string, log zerolog.Logger) error {
	username = strings.TrimSpace(username)
	if username == "" && password == "" {
		log.Debug().Msg("bootstrap admin not configured, skipping")
		metrics.BootstrapTotal.WithLabelValues("skipped").Inc()
		return nil
	}
	if username == "" || password == "" {
		return fmt.Errorf("bootstrap admin: username and password must both be set")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	existing, err := repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		existing.PasswordHash = string(hash)
		existing.Role = domain.RoleAdmin
		existing.IsActive = true
		if _, err := repo.Update(ctx, existing); err != nil {
			return fmt.Errorf("bootstrap admin: update %q: %w", username, err)
		}
		metrics.BootstrapTotal.WithLabelValues("updated").Inc()
		log.Info().Str("username", username).Msg("bootstrap admin account reset")
		return nil

	case errors.Is(err, domain.ErrUserNotFound):
		now := time.Now().UTC()
		user := &domain.User{
			Username:          username,
			PasswordHash:      string(hash),
			Role:              domain.RoleAdmin,
			IsActive:          true,
			ServicePercentage: 100,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if _, err := repo.Create(ctx, user); err != nil {
			return fmt.Errorf("bootstrap admin: create %q: %w", username, err)
		}
		metrics.BootstrapTotal.WithLabelValues("created").Inc()
		log.Info().Str("username", username).Msg("bootstrap admin account created")
		return nil

	default:
		return fmt.Errorf("bootstrap admin: lookup %q: %w", username, err)
	}
}
