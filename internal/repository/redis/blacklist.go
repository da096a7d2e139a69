// Package redis caches blacklisted token fingerprints in front of the primary store.
package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/evalca-server/internal/logger"
	"github.com/dtroode/evalca-server/internal/model"
)

const keyPrefix = "blacklist:"

// Client is the subset of the go-redis client used by the cache.
type Client interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Exists(ctx context.Context, keys ...string) *goredis.IntCmd
}

var _ Client = (*goredis.Client)(nil)

var _ model.BlacklistStore = (*BlacklistCache)(nil)

// BlacklistCache is a read-through cache over another BlacklistStore.
// Redis failures are logged and never fail the call; the wrapped store stays authoritative.
type BlacklistCache struct {
	client Client
	next   model.BlacklistStore
	logger *logger.Logger
	now    func() time.Time
}

func NewBlacklistCache(client Client, next model.BlacklistStore, logger *logger.Logger) *BlacklistCache {
	return &BlacklistCache{
		client: client,
		next:   next,
		logger: logger,
		now:    time.Now,
	}
}

func (c *BlacklistCache) Add(ctx context.Context, entry model.BlacklistedToken) error {
	if err := c.next.Add(ctx, entry); err != nil {
		return err
	}

	ttl := entry.ExpiresAt.Sub(c.now())
	if ttl <= 0 {
		return nil
	}

	if err := c.client.Set(ctx, keyPrefix+entry.Fingerprint, 1, ttl).Err(); err != nil {
		c.logger.Warn("Blacklist cache: failed to set key", "error", err.Error())
	}

	return nil
}

func (c *BlacklistCache) Exists(ctx context.Context, fingerprint string) (bool, error) {
	n, err := c.client.Exists(ctx, keyPrefix+fingerprint).Result()
	if err != nil {
		c.logger.Warn("Blacklist cache: lookup failed, falling back", "error", err.Error())
	}
	if err == nil && n > 0 {
		return true, nil
	}

	return c.next.Exists(ctx, fingerprint)
}

// DeleteExpired purges the wrapped store. Cached keys expire on their own.
func (c *BlacklistCache) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return c.next.DeleteExpired(ctx, now)
}
