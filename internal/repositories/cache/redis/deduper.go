package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
)

// KeyPrefix namespaces dedupe keys in a shared Redis.
const KeyPrefix = "notify:dedupe:"

// Deduper claims notification dedupe keys atomically with SET NX and a TTL,
// so several scheduler processes never send the same notification twice.
type Deduper struct {
	client *redis.Client
}

// NewDeduper creates a Redis-backed notification deduper.
func NewDeduper(client *redis.Client) *Deduper {
	return &Deduper{client: client}
}

var _ portssvc.NotificationDeduper = (*Deduper)(nil)

// Claim reports whether key was free. A claimed key expires after window.
func (d *Deduper) Claim(ctx context.Context, key string, window time.Duration) (bool, error) {
	ok, err := d.client.SetNX(ctx, KeyPrefix+key, time.Now().UTC().Format(time.RFC3339), window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim dedupe key %s: %w", key, err)
	}
	return ok, nil
}

// Release frees key after the notification could not be stored.
func (d *Deduper) Release(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, KeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release dedupe key %s: %w", key, err)
	}
	return nil
}

// NewClient parses a redis:// URL and verifies the server answers.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
