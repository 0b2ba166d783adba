package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"merchant-webhooks/internal/core/domain"
	"merchant-webhooks/internal/core/ports"

	"github.com/google/uuid"
)

// DeliveryRepo implements ports.DeliveryRepository.
type DeliveryRepo struct {
	mu       sync.RWMutex
	attempts map[uuid.UUID]*domain.DeliveryAttempt
}

func NewDeliveryRepo() *DeliveryRepo {
	return &DeliveryRepo{attempts: make(map[uuid.UUID]*domain.DeliveryAttempt)}
}

func copyAttempt(a *domain.DeliveryAttempt) domain.DeliveryAttempt {
	c := *a
	c.Payload = append([]byte(nil), a.Payload...)
	return c
}

func (r *DeliveryRepo) Create(ctx context.Context, a *domain.DeliveryAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.attempts[a.ID]; ok {
		return fmt.Errorf("delivery attempt %s already exists", a.ID)
	}
	for _, cur := range r.attempts {
		if cur.EventID == a.EventID && cur.EndpointID == a.EndpointID {
			return fmt.Errorf("event %s already recorded for endpoint %s", a.EventID, a.EndpointID)
		}
	}
	c := copyAttempt(a)
	r.attempts[a.ID] = &c
	return nil
}

func (r *DeliveryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryAttempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.attempts[id]
	if !ok {
		return nil, nil
	}
	c := copyAttempt(a)
	return &c, nil
}

func (r *DeliveryRepo) Record(ctx context.Context, id uuid.UUID, result domain.AttemptResult) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[id]
	if !ok || !a.IsPending() {
		return false, nil
	}
	result.Apply(a)
	return true, nil
}

// sorted returns copies matching keep, newest first.
func (r *DeliveryRepo) sorted(keep func(*domain.DeliveryAttempt) bool) []domain.DeliveryAttempt {
	out := make([]domain.DeliveryAttempt, 0)
	for _, a := range r.attempts {
		if keep(a) {
			out = append(out, copyAttempt(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *DeliveryRepo) List(ctx context.Context, f ports.LogFilter) ([]domain.DeliveryAttempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.sorted(func(a *domain.DeliveryAttempt) bool {
		switch {
		case a.MerchantID != f.MerchantID:
			return false
		case f.Status != nil && a.Status != *f.Status:
			return false
		case f.Event != nil && a.Event != *f.Event:
			return false
		case f.EndpointID != nil && a.EndpointID != *f.EndpointID:
			return false
		}
		return true
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *DeliveryRepo) Stats(ctx context.Context, merchantID string, since time.Time) (*domain.DeliveryStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := &domain.DeliveryStats{}
	for _, a := range r.attempts {
		if a.MerchantID != merchantID {
			continue
		}
		s.Total++
		switch a.Status {
		case domain.DeliveryStatusSuccess:
			s.Success++
		case domain.DeliveryStatusFailed:
			s.Failed++
		case domain.DeliveryStatusPending:
			s.Pending++
		}
		if !a.CreatedAt.Before(since) {
			s.Last24h++
		}
	}
	s.ComputeSuccessRate()
	return s, nil
}

func (r *DeliveryRepo) ListPending(ctx context.Context, limit int) ([]domain.DeliveryAttempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.sorted(func(a *domain.DeliveryAttempt) bool { return a.IsPending() })
	// oldest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *DeliveryRepo) FailStale(ctx context.Context, cutoff time.Time, message string, at time.Time) ([]domain.DeliveryAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.DeliveryAttempt
	for _, a := range r.attempts {
		if !a.IsPending() || !a.CreatedAt.Before(cutoff) {
			continue
		}
		msg := message
		delivered := at
		a.Status = domain.DeliveryStatusFailed
		a.ErrorMessage = &msg
		a.DeliveredAt = &delivered
		a.NextAttemptAt = nil
		out = append(out, copyAttempt(a))
	}
	return out, nil
}
