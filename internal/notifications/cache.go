package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const cacheVersionKey = "notifications:version"

// Cache keeps per-user unread counts in Redis behind a global version.
// Bumping the version on any read-state write invalidates every cached
// count at once; stale keys expire on their TTL. A nil Cache (or a nil
// client) disables caching without branching at call sites.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	if ver <= 0 {
		ver = 1
		if err := c.client.Set(ctx, cacheVersionKey, ver, 0).Err(); err != nil {
			return 0, err
		}
	}
	return ver, nil
}

// UnreadCount returns the cached count for the user, or ok=false on a miss.
func (c *Cache) UnreadCount(ctx context.Context, userID uuid.UUID) (int, bool, error) {
	if c == nil || c.client == nil {
		return 0, false, nil
	}
	key, err := c.unreadKey(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	count, err := c.client.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

// SetUnreadCount stores the count for the user under the current version.
func (c *Cache) SetUnreadCount(ctx context.Context, userID uuid.UUID, count int) error {
	if c == nil || c.client == nil {
		return nil
	}
	key, err := c.unreadKey(ctx, userID)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, count, c.ttl).Err()
}

// Bump invalidates every cached unread count by incrementing the version.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}

func (c *Cache) unreadKey(ctx context.Context, userID uuid.UUID) (string, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	joined := strings.Join([]string{"notifications", "unread", userID.String()}, ":")
	return fmt.Sprintf("%s:%d", joined, ver), nil
}
