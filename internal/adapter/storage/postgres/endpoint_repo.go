package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"merchant-webhooks/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const endpointColumns = `id, merchant_id, url, events, secret_enc, is_active, description,
	total_success, total_failure, last_success_at, last_failure_at, created_at, updated_at`

// EndpointRepo implements ports.EndpointRepository.
type EndpointRepo struct {
	pool Pool
}

// NewEndpointRepo creates a new EndpointRepo.
func NewEndpointRepo(pool Pool) *EndpointRepo {
	return &EndpointRepo{pool: pool}
}

// Create inserts a new endpoint.
func (r *EndpointRepo) Create(ctx context.Context, ep *domain.WebhookEndpoint) error {
	query := `INSERT INTO webhook_endpoints (id, merchant_id, url, events, secret_enc, is_active, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		ep.ID, ep.MerchantID, ep.URL, ep.EventNames(), ep.SecretEnc,
		ep.IsActive, ep.Description, ep.CreatedAt, ep.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook endpoint: %w", err)
	}
	return nil
}

// GetByID fetches an endpoint regardless of owner. Used by the delivery workers.
func (r *EndpointRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookEndpoint, error) {
	query := `SELECT ` + endpointColumns + ` FROM webhook_endpoints WHERE id = $1`
	ep, err := scanEndpoint(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get webhook endpoint: %w", err)
	}
	return ep, nil
}

// GetForMerchant fetches an endpoint only if merchantID owns it.
func (r *EndpointRepo) GetForMerchant(ctx context.Context, id uuid.UUID, merchantID string) (*domain.WebhookEndpoint, error) {
	query := `SELECT ` + endpointColumns + ` FROM webhook_endpoints WHERE id = $1 AND merchant_id = $2`
	ep, err := scanEndpoint(r.pool.QueryRow(ctx, query, id, merchantID))
	if err != nil {
		return nil, fmt.Errorf("get webhook endpoint for merchant: %w", err)
	}
	return ep, nil
}

func (r *EndpointRepo) ListByMerchant(ctx context.Context, merchantID string) ([]domain.WebhookEndpoint, error) {
	query := `SELECT ` + endpointColumns + ` FROM webhook_endpoints WHERE merchant_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, merchantID)
}

// ListSubscribed returns active endpoints whose events contain event.
func (r *EndpointRepo) ListSubscribed(ctx context.Context, merchantID string, event domain.EventType) ([]domain.WebhookEndpoint, error) {
	query := `SELECT ` + endpointColumns + ` FROM webhook_endpoints
		WHERE merchant_id = $1 AND is_active AND $2 = ANY(events) ORDER BY created_at`
	return r.list(ctx, query, merchantID, string(event))
}

func (r *EndpointRepo) list(ctx context.Context, query string, args ...any) ([]domain.WebhookEndpoint, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list webhook endpoints: %w", err)
	}
	defer rows.Close()

	var out []domain.WebhookEndpoint
	for rows.Next() {
		ep, err := scanEndpoint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan webhook endpoint row: %w", err)
		}
		out = append(out, *ep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate webhook endpoint rows: %w", err)
	}
	return out, nil
}

// Update writes the mutable fields. Counters and secret are not touched.
func (r *EndpointRepo) Update(ctx context.Context, ep *domain.WebhookEndpoint) (bool, error) {
	query := `UPDATE webhook_endpoints SET url = $3, events = $4, is_active = $5, description = $6, updated_at = $7
		WHERE id = $1 AND merchant_id = $2`

	tag, err := r.pool.Exec(ctx, query,
		ep.ID, ep.MerchantID, ep.URL, ep.EventNames(), ep.IsActive, ep.Description, ep.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("update webhook endpoint: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *EndpointRepo) UpdateSecret(ctx context.Context, id uuid.UUID, merchantID string, secretEnc string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE webhook_endpoints SET secret_enc = $3, updated_at = now() WHERE id = $1 AND merchant_id = $2`,
		id, merchantID, secretEnc,
	)
	if err != nil {
		return false, fmt.Errorf("update webhook secret: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *EndpointRepo) Delete(ctx context.Context, id uuid.UUID, merchantID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM webhook_endpoints WHERE id = $1 AND merchant_id = $2`, id, merchantID)
	if err != nil {
		return false, fmt.Errorf("delete webhook endpoint: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// IncrementSuccess bumps the counter in a single statement so concurrent workers never lose updates.
func (r *EndpointRepo) IncrementSuccess(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE webhook_endpoints SET total_success = total_success + 1, last_success_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("increment success counter: %w", err)
	}
	return nil
}

func (r *EndpointRepo) IncrementFailure(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE webhook_endpoints SET total_failure = total_failure + 1, last_failure_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("increment failure counter: %w", err)
	}
	return nil
}

// scanEndpoint returns (nil, nil) on no rows.
func scanEndpoint(row pgx.Row) (*domain.WebhookEndpoint, error) {
	ep := &domain.WebhookEndpoint{}
	var events []string
	err := row.Scan(
		&ep.ID, &ep.MerchantID, &ep.URL, &events, &ep.SecretEnc, &ep.IsActive, &ep.Description,
		&ep.TotalSuccess, &ep.TotalFailure, &ep.LastSuccessAt, &ep.LastFailureAt, &ep.CreatedAt, &ep.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	ep.Events = make([]domain.EventType, len(events))
	for i, e := range events {
		ep.Events[i] = domain.EventType(e)
	}
	return ep, nil
}
