package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"
	"time"

	"merchant-webhooks/internal/core/domain"

	"github.com/google/uuid"
)

// EndpointRepository persists webhook endpoints. Every lookup and mutation is scoped
// by merchant; a row owned by another merchant behaves as if it did not exist.
type EndpointRepository interface {
	Create(ctx context.Context, ep *domain.WebhookEndpoint) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookEndpoint, error)
	GetForMerchant(ctx context.Context, id uuid.UUID, merchantID string) (*domain.WebhookEndpoint, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]domain.WebhookEndpoint, error)
	// ListSubscribed returns active endpoints of the merchant subscribed to event.
	ListSubscribed(ctx context.Context, merchantID string, event domain.EventType) ([]domain.WebhookEndpoint, error)
	// Update writes url, events, is_active and description. Counters are untouched.
	// Returns false when no row matched id and merchant.
	Update(ctx context.Context, ep *domain.WebhookEndpoint) (bool, error)
	UpdateSecret(ctx context.Context, id uuid.UUID, merchantID string, secretEnc string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID, merchantID string) (bool, error)
	// IncrementSuccess and IncrementFailure are atomic in storage.
	IncrementSuccess(ctx context.Context, id uuid.UUID, at time.Time) error
	IncrementFailure(ctx context.Context, id uuid.UUID, at time.Time) error
}

// LogFilter narrows a ledger listing.
type LogFilter struct {
	MerchantID string
	Limit      int
	Status     *domain.DeliveryStatus
	Event      *domain.EventType
	EndpointID *uuid.UUID
}

// DeliveryRepository is the append-only delivery ledger.
type DeliveryRepository interface {
	Create(ctx context.Context, a *domain.DeliveryAttempt) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryAttempt, error)
	// Record applies an attempt outcome only while the row is still pending.
	// Returns false when the row was already terminal or missing.
	Record(ctx context.Context, id uuid.UUID, result domain.AttemptResult) (bool, error)
	List(ctx context.Context, filter LogFilter) ([]domain.DeliveryAttempt, error)
	Stats(ctx context.Context, merchantID string, since time.Time) (*domain.DeliveryStats, error)
	// ListPending returns pending rows ordered by creation, at most limit (all when limit <= 0).
	ListPending(ctx context.Context, limit int) ([]domain.DeliveryAttempt, error)
	// FailStale marks pending rows created before cutoff as failed and returns them.
	FailStale(ctx context.Context, cutoff time.Time, message string, at time.Time) ([]domain.DeliveryAttempt, error)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}
