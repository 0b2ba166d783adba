package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"merchant-webhooks/internal/core/domain"
	"merchant-webhooks/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const deliveryColumns = `id, endpoint_id, merchant_id, event_id, event, webhook_url, payload, status,
	response_status, response_body, error_message, retry_count, delivery_time_ms, next_attempt_at,
	created_at, delivered_at`

// DeliveryRepo implements ports.DeliveryRepository.
type DeliveryRepo struct {
	pool Pool
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(pool Pool) *DeliveryRepo {
	return &DeliveryRepo{pool: pool}
}

// Create appends a ledger row.
func (r *DeliveryRepo) Create(ctx context.Context, a *domain.DeliveryAttempt) error {
	query := `INSERT INTO webhook_deliveries (id, endpoint_id, merchant_id, event_id, event, webhook_url, payload, status, retry_count, next_attempt_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.EndpointID, a.MerchantID, a.EventID, string(a.Event), a.WebhookURL,
		a.Payload, string(a.Status), a.RetryCount, a.NextAttemptAt, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery attempt: %w", err)
	}
	return nil
}

func (r *DeliveryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryAttempt, error) {
	query := `SELECT ` + deliveryColumns + ` FROM webhook_deliveries WHERE id = $1`
	a, err := scanAttempt(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery attempt: %w", err)
	}
	return a, nil
}

// Record applies an outcome only while the row is pending, so a duplicate or late
// attempt can never overwrite a terminal state.
func (r *DeliveryRepo) Record(ctx context.Context, id uuid.UUID, res domain.AttemptResult) (bool, error) {
	query := `UPDATE webhook_deliveries SET status = $2, response_status = $3, response_body = $4, error_message = $5,
		retry_count = $6, delivery_time_ms = $7, next_attempt_at = $8, delivered_at = $9
		WHERE id = $1 AND status = 'pending'`

	tag, err := r.pool.Exec(ctx, query,
		id, string(res.Status), res.ResponseStatus, res.ResponseBody, res.ErrorMessage,
		res.RetryCount, res.DeliveryTimeMs, res.NextAttemptAt, res.DeliveredAt,
	)
	if err != nil {
		return false, fmt.Errorf("record delivery attempt: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// List returns the merchant's rows newest first.
func (r *DeliveryRepo) List(ctx context.Context, f ports.LogFilter) ([]domain.DeliveryAttempt, error) {
	var args []any
	argIdx := 1

	conditions := []string{fmt.Sprintf("merchant_id = $%d", argIdx)}
	args = append(args, f.MerchantID)
	argIdx++

	if f.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(*f.Status))
		argIdx++
	}
	if f.Event != nil {
		conditions = append(conditions, fmt.Sprintf("event = $%d", argIdx))
		args = append(args, string(*f.Event))
		argIdx++
	}
	if f.EndpointID != nil {
		conditions = append(conditions, fmt.Sprintf("endpoint_id = $%d", argIdx))
		args = append(args, *f.EndpointID)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s FROM webhook_deliveries WHERE %s ORDER BY created_at DESC LIMIT $%d`,
		deliveryColumns, strings.Join(conditions, " AND "), argIdx)
	args = append(args, f.Limit)

	return r.query(ctx, query, args...)
}

// Stats aggregates in one pass; success rate is left to the caller.
func (r *DeliveryRepo) Stats(ctx context.Context, merchantID string, since time.Time) (*domain.DeliveryStats, error) {
	query := `SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'success') AS success,
		COUNT(*) FILTER (WHERE status = 'failed') AS failed,
		COUNT(*) FILTER (WHERE status = 'pending') AS pending,
		COUNT(*) FILTER (WHERE created_at >= $2) AS last24h
		FROM webhook_deliveries WHERE merchant_id = $1`

	s := &domain.DeliveryStats{}
	err := r.pool.QueryRow(ctx, query, merchantID, since).Scan(&s.Total, &s.Success, &s.Failed, &s.Pending, &s.Last24h)
	if err != nil {
		return nil, fmt.Errorf("get delivery stats: %w", err)
	}
	return s, nil
}

func (r *DeliveryRepo) ListPending(ctx context.Context, limit int) ([]domain.DeliveryAttempt, error) {
	query := `SELECT ` + deliveryColumns + ` FROM webhook_deliveries WHERE status = 'pending' ORDER BY created_at`
	if limit > 0 {
		return r.query(ctx, query+` LIMIT $1`, limit)
	}
	return r.query(ctx, query)
}

// FailStale closes pending rows created before cutoff and returns them.
func (r *DeliveryRepo) FailStale(ctx context.Context, cutoff time.Time, message string, at time.Time) ([]domain.DeliveryAttempt, error) {
	query := `UPDATE webhook_deliveries SET status = 'failed', error_message = $2, delivered_at = $3, next_attempt_at = NULL
		WHERE status = 'pending' AND created_at < $1
		RETURNING ` + deliveryColumns

	return r.query(ctx, query, cutoff, message, at)
}

func (r *DeliveryRepo) query(ctx context.Context, query string, args ...any) ([]domain.DeliveryAttempt, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query delivery attempts: %w", err)
	}
	defer rows.Close()

	var out []domain.DeliveryAttempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery attempt row: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate delivery attempt rows: %w", err)
	}
	return out, nil
}

func scanAttempt(row pgx.Row) (*domain.DeliveryAttempt, error) {
	a := &domain.DeliveryAttempt{}
	var event, status string
	err := row.Scan(
		&a.ID, &a.EndpointID, &a.MerchantID, &a.EventID, &event, &a.WebhookURL, &a.Payload, &status,
		&a.ResponseStatus, &a.ResponseBody, &a.ErrorMessage, &a.RetryCount, &a.DeliveryTimeMs, &a.NextAttemptAt,
		&a.CreatedAt, &a.DeliveredAt,
	)
	if err != nil {
		return nil, err
	}
	a.Event = domain.EventType(event)
	a.Status = domain.DeliveryStatus(status)
	return a, nil
}
