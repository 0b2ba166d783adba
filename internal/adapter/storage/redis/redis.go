package redis

import (
	"context"
	"fmt"
	"time"

	"merchant-webhooks/config"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	clientName  = "merchant-webhooks"
	dialTimeout = 5 * time.Second
)

// clientOptions maps the redis section onto go-redis options.
func clientOptions(cfg config.RedisConfig) *goredis.Options {
	return &goredis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		ClientName:  clientName,
		DialTimeout: dialTimeout,
	}
}

// NewClient connects the client shared by the retry queue, stats cache and
// rate limiter. A client that cannot answer PING is closed and not returned.
func NewClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*goredis.Client, error) {
	client := goredis.NewClient(clientOptions(cfg))

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr(), err)
	}

	log.Info().
		Str("addr", cfg.Addr()).
		Int("db", cfg.DB).
		Str("retry_queue", retryQueueKey).
		Msg("redis ready for retry queue and stats cache")

	return client, nil
}
