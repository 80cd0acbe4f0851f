package ports

import (
	"context"

	"github.com/wildcloud/starter-api/internal/core/domain"
)

// SessionService owns the cached session and settings records and keeps the
// settings view synchronized with the durable user row.
type SessionService interface {
	// GetSession returns the cached session, or nil when none exists.
	// Cache failures surface as a coded error, never as a silent miss.
	GetSession(ctx context.Context, userID int64) (*domain.Session, error)
	// PutSession writes the session with the full sliding TTL.
	PutSession(ctx context.Context, session *domain.Session) error
	// RefreshSession rewrites the unchanged session payload with a renewed
	// TTL. No-op when no session exists.
	RefreshSession(ctx context.Context, userID int64) error
	DeleteSession(ctx context.Context, userID int64) error

	// GetSettings reads through the cache, backfilling it from the durable
	// store (with defaults) on a miss.
	GetSettings(ctx context.Context, userID int64) (domain.Settings, error)
	// PutSettings writes the settings snapshot to the cache only.
	PutSettings(ctx context.Context, settings domain.Settings) error
	// UpdateSettings merges the patch over the current record and writes
	// the result to both the durable store and the cache.
	UpdateSettings(ctx context.Context, userID int64, patch domain.SettingsPatch) (domain.Settings, error)

	// UpdateActivity stamps today's date on the session, at most once per
	// user per calendar day.
	UpdateActivity(ctx context.Context, userID int64) error

	// UpdateCachedAvatar rewrites the avatar URL on the cached settings
	// record when one exists. Cache-only; no-op on a miss.
	UpdateCachedAvatar(ctx context.Context, userID int64, url string) error
}
