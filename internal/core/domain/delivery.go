package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus represents the state of a delivery attempt row.
type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "pending"
	DeliveryStatusSuccess DeliveryStatus = "success"
	DeliveryStatusFailed  DeliveryStatus = "failed"
)

// Valid reports whether s is a known status.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryStatusPending, DeliveryStatusSuccess, DeliveryStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further attempts will be made.
func (s DeliveryStatus) Terminal() bool {
	return s == DeliveryStatusSuccess || s == DeliveryStatusFailed
}

// DeliveryAttempt is the ledger row tracking delivery of one event to one endpoint.
// Retries update the same row; Payload never changes after creation.
type DeliveryAttempt struct {
	ID             uuid.UUID      `json:"id"`
	EndpointID     uuid.UUID      `json:"endpoint_id"`
	MerchantID     string         `json:"merchant_id"`
	EventID        uuid.UUID      `json:"event_id"`
	Event          EventType      `json:"event"`
	WebhookURL     string         `json:"webhook_url"`
	Payload        []byte         `json:"payload"`
	Status         DeliveryStatus `json:"status"`
	ResponseStatus *int           `json:"response_status,omitempty"`
	ResponseBody   *string        `json:"response_body,omitempty"`
	ErrorMessage   *string        `json:"error_message,omitempty"`
	RetryCount     int            `json:"retry_count"`
	DeliveryTimeMs *int64         `json:"delivery_time_ms,omitempty"`
	NextAttemptAt  *time.Time     `json:"next_attempt_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	DeliveredAt    *time.Time     `json:"delivered_at,omitempty"`
}

// IsPending reports whether the attempt still awaits a terminal outcome.
func (a *DeliveryAttempt) IsPending() bool {
	return a.Status == DeliveryStatusPending
}

// AttemptResult is the outcome of one HTTP attempt, applied to a row in place.
type AttemptResult struct {
	Status         DeliveryStatus
	ResponseStatus *int
	ResponseBody   *string
	ErrorMessage   *string
	RetryCount     int
	DeliveryTimeMs int64
	NextAttemptAt  *time.Time
	DeliveredAt    *time.Time
}

// Apply copies the result onto the attempt.
func (r AttemptResult) Apply(a *DeliveryAttempt) {
	a.Status = r.Status
	a.ResponseStatus = r.ResponseStatus
	a.ResponseBody = r.ResponseBody
	a.ErrorMessage = r.ErrorMessage
	a.RetryCount = r.RetryCount
	ms := r.DeliveryTimeMs
	a.DeliveryTimeMs = &ms
	a.NextAttemptAt = r.NextAttemptAt
	a.DeliveredAt = r.DeliveredAt
}

// DeliveryStats aggregates a merchant's ledger.
type DeliveryStats struct {
	Total       int64 `json:"total"`
	Success     int64 `json:"success"`
	Failed      int64 `json:"failed"`
	Pending     int64 `json:"pending"`
	Last24h     int64 `json:"last24h"`
	SuccessRate int64 `json:"successRate"`
}

// ComputeSuccessRate fills SuccessRate as success/total*100 rounded half up.
func (s *DeliveryStats) ComputeSuccessRate() {
	if s.Total <= 0 {
		s.SuccessRate = 0
		return
	}
	s.SuccessRate = (s.Success*200 + s.Total) / (s.Total * 2)
}
