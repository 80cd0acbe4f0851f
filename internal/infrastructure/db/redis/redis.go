// Package redis provides the key-value cache backend holding the session
// and settings records, plus the raw pass-through entries.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const connectTimeout = 5 * time.Second

// Config captures the settings for the cache connection.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Connect builds the client and verifies the server is reachable before
// handing it out. A cache that is down at startup is a deployment problem,
// so this fails fast instead of retrying.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
