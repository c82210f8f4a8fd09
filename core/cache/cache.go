package cache

import (
	"context"
	"fmt"
	"time"

	"workspace-api/core/config"
	"workspace-api/core/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Invalidator drops cached list views after a write. Implementations must be
// best-effort: a cache failure never fails the write that triggered it.
type Invalidator interface {
	InvalidateMeetings(ctx context.Context, userID uuid.UUID)
}

type Cache struct {
	rdb *redis.Client
}

func New(cfg config.RedisConfig) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis cache initialized", "addr", cfg.Addr, "db", cfg.DB)
	return &Cache{rdb: rdb}, nil
}

func meetingsKey(userID uuid.UUID) string {
	return "meetings:user:" + userID.String()
}

// InvalidateMeetings drops the cached meeting list for one user. Failures are
// logged and swallowed; readers fall through to the database.
func (c *Cache) InvalidateMeetings(ctx context.Context, userID uuid.UUID) {
	if err := c.rdb.Del(ctx, meetingsKey(userID)).Err(); err != nil {
		logger.Warn("Cache:InvalidateMeetings", "error", err, "user_id", userID)
	}
}

// GetMeetings returns the cached meeting list payload for a user, or "" on a
// miss.
func (c *Cache) GetMeetings(ctx context.Context, userID uuid.UUID) string {
	val, err := c.rdb.Get(ctx, meetingsKey(userID)).Result()
	if err != nil {
		return ""
	}
	return val
}

// SetMeetings caches the serialized meeting list for a user.
func (c *Cache) SetMeetings(ctx context.Context, userID uuid.UUID, payload string, ttl time.Duration) {
	if err := c.rdb.Set(ctx, meetingsKey(userID), payload, ttl).Err(); err != nil {
		logger.Warn("Cache:SetMeetings", "error", err, "user_id", userID)
	}
}
