package ports

import (
	"context"

	"github.com/melrifa1/no1-service-tracker/internal/core/domain"
)

type AuthService interface {
	// Login checks the credentials and returns a signed token plus the
	// account. remoteIP feeds the attempt throttle.
	Login(ctx context.Context, username, password, remoteIP string) (string, *domain.User, error)
}
