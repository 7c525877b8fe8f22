package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// StatsCache memoizes the per-user stats payload. Entries are short-lived
// and dropped on every mutation, so a stale read window is bounded by the
// TTL even if an invalidation is lost.
type StatsCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewStatsCache(client *redisv9.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &StatsCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *StatsCache) Get(ctx context.Context, userID uint, dest interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, c.key(userID)).Result()
	if err == redisv9.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get stats failed: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("unmarshal cached stats failed: %w", err)
	}
	return true, nil
}

func (c *StatsCache) Set(ctx context.Context, userID uint, stats interface{}) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(userID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set stats failed: %w", err)
	}
	return nil
}

func (c *StatsCache) Invalidate(ctx context.Context, userID uint) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete stats failed: %w", err)
	}
	return nil
}

func (c *StatsCache) key(userID uint) string {
	return fmt.Sprintf("todo:stats:%d", userID)
}
