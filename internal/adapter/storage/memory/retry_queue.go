package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RetryQueue implements ports.RetryQueue with a map of due times. Scheduling an
// id that is already queued moves it.
type RetryQueue struct {
	mu  sync.Mutex
	due map[uuid.UUID]time.Time
}

func NewRetryQueue() *RetryQueue {
	return &RetryQueue{due: make(map[uuid.UUID]time.Time)}
}

func (q *RetryQueue) Schedule(ctx context.Context, attemptID uuid.UUID, at time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.due[attemptID] = at
	return nil
}

func (q *RetryQueue) Claim(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	type entry struct {
		id uuid.UUID
		at time.Time
	}
	var ready []entry
	for id, at := range q.due {
		if !at.After(now) {
			ready = append(ready, entry{id, at})
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i].at.Before(ready[j].at) })
	if limit > 0 && len(ready) > limit {
		ready = ready[:limit]
	}
	ids := make([]uuid.UUID, len(ready))
	for i, e := range ready {
		ids[i] = e.id
		delete(q.due, e.id)
	}
	return ids, nil
}

func (q *RetryQueue) Len(ctx context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.due)), nil
}

// DueAt reports when id is scheduled, for tests and diagnostics.
func (q *RetryQueue) DueAt(id uuid.UUID) (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	at, ok := q.due[id]
	return at, ok
}
