package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"merchant-webhooks/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// StatsCache implements ports.StatsCache using Redis.
type StatsCache struct {
	client *goredis.Client
	prefix string
}

// NewStatsCache creates a new Redis-backed stats cache.
func NewStatsCache(client *goredis.Client) *StatsCache {
	return &StatsCache{
		client: client,
		prefix: "webhooks:stats:",
	}
}

// Get returns nil, nil on a miss.
func (c *StatsCache) Get(ctx context.Context, merchantID string) (*domain.DeliveryStats, error) {
	val, err := c.client.Get(ctx, c.prefix+merchantID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis stats get: %w", err)
	}
	var stats domain.DeliveryStats
	if err := json.Unmarshal(val, &stats); err != nil {
		return nil, fmt.Errorf("decode cached stats: %w", err)
	}
	return &stats, nil
}

func (c *StatsCache) Set(ctx context.Context, merchantID string, stats *domain.DeliveryStats, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	val, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+merchantID, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis stats set: %w", err)
	}
	return nil
}
