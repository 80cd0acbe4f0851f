package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KV adapts a Redis client to the generic key-value port used by the
// session/settings cache and the raw /api/kv endpoints.
type KV struct {
	client *redis.Client
}

// NewKV creates a KV wrapping the given Redis client.
func NewKV(client *redis.Client) *KV {
	return &KV{client: client}
}

// Get returns the value for key and whether it exists. A missing key is
// reported as found=false, not as an error.
func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := k.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return val, true, nil
}

// Put stores value under key. A zero ttl stores without expiry.
func (k *KV) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := k.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("kv put %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (k *KV) Delete(ctx context.Context, key string) error {
	if err := k.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}
