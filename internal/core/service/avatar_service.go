package service

import (
	"context"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wildcloud/starter-api/internal/core/domain"
	"github.com/wildcloud/starter-api/internal/core/ports"
)

// MaxAvatarSize is the upload limit for avatar files.
const MaxAvatarSize = 2 << 20 // 2 MB

// avatarContentTypes maps the accepted MIME types onto canonical file
// extensions.
var avatarContentTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

var avatarExtensions = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "webp": {}, "gif": {},
}

// AvatarService uploads avatar images to the object store and records the
// result on the user row and the cached settings.
type AvatarService struct {
	store    ports.ObjectStore
	users    ports.UserRepository
	sessions ports.SessionService
	log      zerolog.Logger
}

func NewAvatarService(store ports.ObjectStore, users ports.UserRepository, sessions ports.SessionService, log zerolog.Logger) *AvatarService {
	return &AvatarService{store: store, users: users, sessions: sessions, log: log}
}

// ValidateType reports whether the MIME type is an accepted image format.
func ValidateType(contentType string) bool {
	_, ok := avatarContentTypes[contentType]
	return ok
}

// ValidateSize reports whether the byte size is within the upload limit.
func ValidateSize(size int64) bool {
	return size > 0 && size <= MaxAvatarSize
}

// Upload stores the avatar under a generated key and updates the durable
// row. The cached settings update is best-effort: a cache failure is logged
// but does not fail an upload that already persisted.
func (s *AvatarService) Upload(ctx context.Context, userID int64, filename, contentType string, size int64, body io.Reader) (string, error) {
	if !ValidateType(contentType) {
		return "", domain.NewError(domain.CodeInvalidParams,
			"unsupported file format, please upload a JPG, PNG, WebP or GIF image")
	}
	if !ValidateSize(size) {
		return "", domain.NewError(domain.CodeInvalidParams, "file exceeds the 2MB size limit")
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if _, ok := avatarExtensions[ext]; !ok {
		ext = avatarContentTypes[contentType]
	}

	key := "avatar/" + uuid.NewString() + "." + ext
	metadata := map[string]string{
		"user-id":       strconv.FormatInt(userID, 10),
		"original-name": filename,
		"upload-date":   time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.store.Put(ctx, key, body, contentType, metadata); err != nil {
		return "", domain.WrapError(domain.CodeInternal, "avatar upload failed", err)
	}

	url := s.store.PublicURL(key)

	if err := s.users.UpdateAvatar(ctx, userID, url, key); err != nil {
		return "", domain.DatabaseError("update avatar", err)
	}

	if err := s.sessions.UpdateCachedAvatar(ctx, userID, url); err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("failed to update avatar in cached settings")
	}

	return url, nil
}
