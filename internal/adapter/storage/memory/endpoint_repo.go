// Package memory provides process-local storage for development and tests.
// Data does not survive a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"merchant-webhooks/internal/core/domain"

	"github.com/google/uuid"
)

// EndpointRepo implements ports.EndpointRepository.
type EndpointRepo struct {
	mu        sync.RWMutex
	endpoints map[uuid.UUID]*domain.WebhookEndpoint
}

func NewEndpointRepo() *EndpointRepo {
	return &EndpointRepo{endpoints: make(map[uuid.UUID]*domain.WebhookEndpoint)}
}

func copyEndpoint(ep *domain.WebhookEndpoint) *domain.WebhookEndpoint {
	c := *ep
	c.Events = append([]domain.EventType(nil), ep.Events...)
	if ep.Description != nil {
		d := *ep.Description
		c.Description = &d
	}
	return &c
}

func (r *EndpointRepo) Create(ctx context.Context, ep *domain.WebhookEndpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.endpoints[ep.ID]; ok {
		return fmt.Errorf("endpoint %s already exists", ep.ID)
	}
	r.endpoints[ep.ID] = copyEndpoint(ep)
	return nil
}

func (r *EndpointRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookEndpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ep, ok := r.endpoints[id]
	if !ok {
		return nil, nil
	}
	return copyEndpoint(ep), nil
}

func (r *EndpointRepo) GetForMerchant(ctx context.Context, id uuid.UUID, merchantID string) (*domain.WebhookEndpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ep, ok := r.endpoints[id]
	if !ok || ep.MerchantID != merchantID {
		return nil, nil
	}
	return copyEndpoint(ep), nil
}

func (r *EndpointRepo) list(filter func(*domain.WebhookEndpoint) bool) []domain.WebhookEndpoint {
	out := make([]domain.WebhookEndpoint, 0)
	for _, ep := range r.endpoints {
		if filter(ep) {
			out = append(out, *copyEndpoint(ep))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *EndpointRepo) ListByMerchant(ctx context.Context, merchantID string) ([]domain.WebhookEndpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.list(func(ep *domain.WebhookEndpoint) bool { return ep.MerchantID == merchantID }), nil
}

func (r *EndpointRepo) ListSubscribed(ctx context.Context, merchantID string, event domain.EventType) ([]domain.WebhookEndpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.list(func(ep *domain.WebhookEndpoint) bool {
		return ep.MerchantID == merchantID && ep.Accepts(event)
	}), nil
}

func (r *EndpointRepo) Update(ctx context.Context, ep *domain.WebhookEndpoint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.endpoints[ep.ID]
	if !ok || cur.MerchantID != ep.MerchantID {
		return false, nil
	}
	next := copyEndpoint(ep)
	// counters and secret are owned elsewhere
	next.SecretEnc = cur.SecretEnc
	next.TotalSuccess, next.TotalFailure = cur.TotalSuccess, cur.TotalFailure
	next.LastSuccessAt, next.LastFailureAt = cur.LastSuccessAt, cur.LastFailureAt
	next.CreatedAt = cur.CreatedAt
	r.endpoints[ep.ID] = next
	return true, nil
}

func (r *EndpointRepo) UpdateSecret(ctx context.Context, id uuid.UUID, merchantID string, secretEnc string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ep, ok := r.endpoints[id]
	if !ok || ep.MerchantID != merchantID {
		return false, nil
	}
	ep.SecretEnc = secretEnc
	ep.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *EndpointRepo) Delete(ctx context.Context, id uuid.UUID, merchantID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ep, ok := r.endpoints[id]
	if !ok || ep.MerchantID != merchantID {
		return false, nil
	}
	delete(r.endpoints, id)
	return true, nil
}

func (r *EndpointRepo) IncrementSuccess(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ep, ok := r.endpoints[id]; ok {
		ep.TotalSuccess++
		ep.LastSuccessAt = &at
	}
	return nil
}

func (r *EndpointRepo) IncrementFailure(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ep, ok := r.endpoints[id]; ok {
		ep.TotalFailure++
		ep.LastFailureAt = &at
	}
	return nil
}
