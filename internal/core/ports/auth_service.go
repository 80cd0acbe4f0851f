package ports

import (
	"context"

	"github.com/wildcloud/starter-api/internal/core/domain"
)

// Identity is the authenticated principal resolved from a request.
type Identity struct {
	UserID int64
	Email  string
	Name   string
}

// AuthService implements registration, login, logout, and request
// verification.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	// Login returns a signed token and the user on success.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, userID int64) error
	// Verify validates the signed token and cross-checks the session
	// cache. Any failure, including an unreachable cache, yields an error:
	// verification fails closed.
	Verify(ctx context.Context, token string) (*Identity, error)
}
