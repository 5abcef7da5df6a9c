package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/melrifa1/no1-service-tracker/internal/api/metrics"
	"github.com/melrifa1/no1-service-tracker/internal/core/domain"
	"github.com/melrifa1/no1-service-tracker/internal/core/ports"
)

// LoginThrottle abstracts the failed-attempt counter (Redis).
type LoginThrottle interface {
	Blocked(ctx context.Context, username, ip string) (bool, error)
	RecordFailure(ctx context.Context, username, ip string) error
	Reset(ctx context.Context, username, ip string) error
}

// AuthService implements credential checks and token issuance.
type AuthService struct {
	repo      ports.UserRepository
	throttle  LoginThrottle
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, throttle LoginThrottle, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, throttle: throttle, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Login walks the credential check in a fixed order: throttle, lookup,
// active flag, password. Each stage fails with its own error so the API
// can tell an unknown account from a bad password from a disabled login.
func (s *AuthService) Login(ctx context.Context, username, password, remoteIP string) (string, *domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	// Throttle failures never block a login; the counter is advisory.
	blocked, err := s.throttle.Blocked(ctx, username, remoteIP)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("throttle check failed, allowing attempt")
	} else if blocked {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		// Only a confirmed miss counts against the caller; a storage
		// outage must not burn throttle budget.
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, username, remoteIP)
			metrics.LoginsTotal.WithLabelValues("unknown_user").Inc()
		}
		return "", nil, err
	}

	if !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("inactive").Inc()
		return "", nil, domain.ErrUserInactive
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, username, remoteIP)
		metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	if resetErr := s.throttle.Reset(ctx, username, remoteIP); resetErr != nil {
		s.log.Warn().Err(resetErr).Str("username", username).Msg("failed to reset throttle counter")
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("username", username).Str("role", user.Role).Msg("login succeeded")

	return token, user, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username, ip string) {
	if err := s.throttle.RecordFailure(ctx, username, ip); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
