package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/wildcloud/starter-api/internal/api/metrics"
	"github.com/wildcloud/starter-api/internal/core/domain"
	"github.com/wildcloud/starter-api/internal/core/ports"
)

func sessionKey(userID int64) string  { return fmt.Sprintf("session:%d", userID) }
func settingsKey(userID int64) string { return fmt.Sprintf("settings:%d", userID) }

// sessionService keeps the cached session and settings records in the
// key-value store, with the users table as source of truth for settings.
type sessionService struct {
	kv    ports.KVStore
	users ports.UserRepository
	log   zerolog.Logger
	now   func() time.Time
}

// NewSessionService returns a SessionService implementation.
func NewSessionService(kv ports.KVStore, users ports.UserRepository, log zerolog.Logger) ports.SessionService {
	return &sessionService{kv: kv, users: users, log: log, now: time.Now}
}

func (s *sessionService) GetSession(ctx context.Context, userID int64) (*domain.Session, error) {
	raw, found, err := s.kv.Get(ctx, sessionKey(userID))
	if err != nil {
		return nil, domain.CacheError("get session", err)
	}
	if !found {
		return nil, nil
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, domain.CacheError("decode session", err)
	}
	return &session, nil
}

func (s *sessionService) PutSession(ctx context.Context, session *domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return domain.CacheError("encode session", err)
	}
	if err := s.kv.Put(ctx, sessionKey(session.ID), string(raw), domain.SessionTTL); err != nil {
		return domain.CacheError("put session", err)
	}
	return nil
}

// RefreshSession re-writes the unchanged payload with a renewed TTL.
func (s *sessionService) RefreshSession(ctx context.Context, userID int64) error {
	session, err := s.GetSession(ctx, userID)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	return s.PutSession(ctx, session)
}

func (s *sessionService) DeleteSession(ctx context.Context, userID int64) error {
	if err := s.kv.Delete(ctx, sessionKey(userID)); err != nil {
		return domain.CacheError("delete session", err)
	}
	return nil
}

// GetSettings reads through the cache. On a miss the durable record is
// loaded, defaults fill any unset field, and the result is cached without
// expiry before returning.
func (s *sessionService) GetSettings(ctx context.Context, userID int64) (domain.Settings, error) {
	raw, found, err := s.kv.Get(ctx, settingsKey(userID))
	if err != nil {
		return domain.Settings{}, domain.CacheError("get settings", err)
	}
	if found {
		var settings domain.Settings
		if err := json.Unmarshal([]byte(raw), &settings); err != nil {
			return domain.Settings{}, domain.CacheError("decode settings", err)
		}
		metrics.SettingsCacheTotal.WithLabelValues("hit").Inc()
		return settings, nil
	}
	metrics.SettingsCacheTotal.WithLabelValues("miss").Inc()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return domain.Settings{}, domain.DatabaseError("read settings", err)
	}

	var settings domain.Settings
	if user != nil {
		settings = domain.SettingsFromUser(user)
	} else {
		// No durable row either: serve pure defaults for the id.
		settings = domain.SettingsFromUser(&domain.User{ID: userID})
	}

	if err := s.PutSettings(ctx, settings); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

func (s *sessionService) PutSettings(ctx context.Context, settings domain.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return domain.CacheError("encode settings", err)
	}
	if err := s.kv.Put(ctx, settingsKey(settings.UserID), string(raw), 0); err != nil {
		return domain.CacheError("put settings", err)
	}
	return nil
}

// UpdateSettings merges the patch over the current record, then writes the
// merged value to the durable store and the cache concurrently. There is no
// cross-store transaction: a failure on either side surfaces as a
// cache-service error and the stores stay divergent until the next full
// overwrite.
func (s *sessionService) UpdateSettings(ctx context.Context, userID int64, patch domain.SettingsPatch) (domain.Settings, error) {
	current, err := s.GetSettings(ctx, userID)
	if err != nil {
		return domain.Settings{}, err
	}

	merged := current.Merge(patch)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.users.UpdateSettings(gctx, userID, merged)
	})
	g.Go(func() error {
		return s.PutSettings(gctx, merged)
	})
	if err := g.Wait(); err != nil {
		return domain.Settings{}, domain.CacheError("update settings", err)
	}

	return merged, nil
}

// UpdateActivity stamps today's date on the session. The day check throttles
// writes to at most one per user per calendar day.
func (s *sessionService) UpdateActivity(ctx context.Context, userID int64) error {
	session, err := s.GetSession(ctx, userID)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	today := s.now().Format(domain.ActivityDateLayout)
	if session.LastActivityDate == today {
		return nil
	}

	session.LastActivityDate = today
	return s.PutSession(ctx, session)
}

// UpdateCachedAvatar rewrites the avatar URL on the cached settings record
// when one exists. The durable row is updated separately by the avatar
// upload path.
func (s *sessionService) UpdateCachedAvatar(ctx context.Context, userID int64, url string) error {
	raw, found, err := s.kv.Get(ctx, settingsKey(userID))
	if err != nil {
		return domain.CacheError("get settings", err)
	}
	if !found {
		return nil
	}

	var settings domain.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return domain.CacheError("decode settings", err)
	}
	settings.AvatarURL = url
	return s.PutSettings(ctx, settings)
}
