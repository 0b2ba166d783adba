package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const retryQueueKey = "webhooks:retry"

// RetryQueue implements ports.RetryQueue as a sorted set scored by due time
// in unix milliseconds.
type RetryQueue struct {
	client *goredis.Client
	key    string
}

// NewRetryQueue creates a Redis-backed delayed queue.
func NewRetryQueue(client *goredis.Client) *RetryQueue {
	return &RetryQueue{
		client: client,
		key:    retryQueueKey,
	}
}

// Schedule adds or moves an attempt to the given due time.
func (q *RetryQueue) Schedule(ctx context.Context, attemptID uuid.UUID, at time.Time) error {
	err := q.client.ZAdd(ctx, q.key, goredis.Z{
		Score:  float64(at.UnixMilli()),
		Member: attemptID.String(),
	}).Err()
	if err != nil {
		return fmt.Errorf("redis retry schedule: %w", err)
	}
	return nil
}

// Claim reads due members and removes them one by one. Only the caller whose
// ZREM removed the member gets the id, so concurrent pollers never share one.
func (q *RetryQueue) Claim(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		return nil, nil
	}
	members, err := q.client.ZRangeByScore(ctx, q.key, &goredis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("redis retry range: %w", err)
	}

	claimed := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		removed, err := q.client.ZRem(ctx, q.key, m).Result()
		if err != nil {
			return claimed, fmt.Errorf("redis retry claim: %w", err)
		}
		if removed == 0 {
			continue
		}
		id, err := uuid.Parse(m)
		if err != nil {
			continue
		}
		claimed = append(claimed, id)
	}
	return claimed, nil
}

// Len returns the number of scheduled attempts.
func (q *RetryQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.ZCard(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis retry len: %w", err)
	}
	return n, nil
}
