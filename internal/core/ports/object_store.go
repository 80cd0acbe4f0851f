package ports

import (
	"context"
	"io"
)

// ObjectStore abstracts the file storage backend for avatar uploads.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string, metadata map[string]string) error
	// PublicURL returns the externally reachable URL for a stored key.
	PublicURL(key string) string
}
