package ports

import (
	"context"

	"github.com/wildcloud/starter-api/internal/core/domain"
)

// UserRepository defines the interface for durable user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// UpdateSettings overwrites the personalization columns for the user.
	UpdateSettings(ctx context.Context, id int64, settings domain.Settings) error
	// UpdateAvatar records the uploaded avatar's public URL and storage key.
	UpdateAvatar(ctx context.Context, id int64, url, key string) error
}
