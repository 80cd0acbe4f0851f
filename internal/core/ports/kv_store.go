package ports

import (
	"context"
	"time"
)

// KVStore abstracts the external key-value cache. Keys are arbitrary
// strings; values are serialized records. A zero TTL means no expiry.
type KVStore interface {
	// Get returns the stored value and whether the key exists. A missing
	// key is not an error.
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
