package dto

import (
	"encoding/json"
	"time"

	"merchant-webhooks/internal/core/domain"
)

// MerchantURI binds the merchant wallet path segment.
type MerchantURI struct {
	Merchant string `uri:"merchant" binding:"required,safe_id,max=64"`
}

// EndpointURI binds a merchant-scoped endpoint path.
type EndpointURI struct {
	Merchant string `uri:"merchant" binding:"required,safe_id,max=64"`
	ID       string `uri:"id" binding:"required,uuid"`
}

// CreateEndpointRequest is the request body for endpoint registration.
type CreateEndpointRequest struct {
	URL         string   `json:"url" binding:"required,safe_url,max=2048"`
	Events      []string `json:"events" binding:"required,min=1,dive,required"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=500"`
}

// UpdateEndpointRequest is a partial update; omitted fields are unchanged.
type UpdateEndpointRequest struct {
	URL         *string   `json:"url,omitempty" binding:"omitempty,safe_url,max=2048"`
	Events      *[]string `json:"events,omitempty" binding:"omitempty,min=1,dive,required"`
	IsActive    *bool     `json:"is_active,omitempty"`
	Description *string   `json:"description,omitempty" binding:"omitempty,max=500"`
}

// Patch converts the request into the registry's patch type.
func (r UpdateEndpointRequest) Patch() domain.EndpointPatch {
	p := domain.EndpointPatch{
		URL:         r.URL,
		IsActive:    r.IsActive,
		Description: r.Description,
	}
	if r.Events != nil {
		p.Events = *r.Events
	}
	return p
}

// LogsQuery holds the delivery log filters.
type LogsQuery struct {
	Limit      int    `form:"limit" binding:"omitempty,min=1"`
	Status     string `form:"status" binding:"omitempty,oneof=pending success failed"`
	Event      string `form:"event"`
	EndpointID string `form:"endpoint_id" binding:"omitempty,uuid"`
}

// TestWebhookRequest is the request body for a reachability test.
type TestWebhookRequest struct {
	URL     string          `json:"url" binding:"required,max=2048"`
	Payload json.RawMessage `json:"testPayload,omitempty"`
}

// EndpointResponse is an endpoint without its secret.
type EndpointResponse struct {
	ID            string     `json:"id"`
	URL           string     `json:"url"`
	Events        []string   `json:"events"`
	IsActive      bool       `json:"is_active"`
	Description   *string    `json:"description,omitempty"`
	TotalSuccess  int64      `json:"total_success"`
	TotalFailure  int64      `json:"total_failure"`
	LastSuccessAt *time.Time `json:"last_success_at,omitempty"`
	LastFailureAt *time.Time `json:"last_failure_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewEndpointResponse maps a domain endpoint to its API shape.
func NewEndpointResponse(ep *domain.WebhookEndpoint) EndpointResponse {
	return EndpointResponse{
		ID:            ep.ID.String(),
		URL:           ep.URL,
		Events:        ep.EventNames(),
		IsActive:      ep.IsActive,
		Description:   ep.Description,
		TotalSuccess:  ep.TotalSuccess,
		TotalFailure:  ep.TotalFailure,
		LastSuccessAt: ep.LastSuccessAt,
		LastFailureAt: ep.LastFailureAt,
		CreatedAt:     ep.CreatedAt,
		UpdatedAt:     ep.UpdatedAt,
	}
}

// CreateEndpointResponse carries the secret. It is the only response that ever does.
type CreateEndpointResponse struct {
	EndpointResponse
	Secret  string `json:"secret"`
	Warning string `json:"warning,omitempty"`
}

// RotateSecretResponse returns a freshly generated secret.
type RotateSecretResponse struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}

// DeliveryLogResponse is one ledger row.
type DeliveryLogResponse struct {
	ID             string          `json:"id"`
	EndpointID     string          `json:"endpoint_id"`
	EventID        string          `json:"event_id"`
	Event          string          `json:"event"`
	WebhookURL     string          `json:"webhook_url"`
	Payload        json.RawMessage `json:"payload"`
	Status         string          `json:"status"`
	ResponseStatus *int            `json:"response_status,omitempty"`
	ResponseBody   *string         `json:"response_body,omitempty"`
	ErrorMessage   *string         `json:"error_message,omitempty"`
	RetryCount     int             `json:"retry_count"`
	DeliveryTimeMs *int64          `json:"delivery_time_ms,omitempty"`
	NextAttemptAt  *time.Time      `json:"next_attempt_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`
}

// NewDeliveryLogResponse maps a ledger row. The stored payload is emitted as raw JSON.
func NewDeliveryLogResponse(a *domain.DeliveryAttempt) DeliveryLogResponse {
	payload := json.RawMessage(a.Payload)
	if !json.Valid(payload) {
		payload = json.RawMessage("null")
	}
	return DeliveryLogResponse{
		ID:             a.ID.String(),
		EndpointID:     a.EndpointID.String(),
		EventID:        a.EventID.String(),
		Event:          string(a.Event),
		WebhookURL:     a.WebhookURL,
		Payload:        payload,
		Status:         string(a.Status),
		ResponseStatus: a.ResponseStatus,
		ResponseBody:   a.ResponseBody,
		ErrorMessage:   a.ErrorMessage,
		RetryCount:     a.RetryCount,
		DeliveryTimeMs: a.DeliveryTimeMs,
		NextAttemptAt:  a.NextAttemptAt,
		CreatedAt:      a.CreatedAt,
		DeliveredAt:    a.DeliveredAt,
	}
}

// StatsResponse is the statistics summary.
type StatsResponse struct {
	Total       int64 `json:"total"`
	SuccessRate int64 `json:"successRate"`
	Failed      int64 `json:"failed"`
	Last24h     int64 `json:"last24h"`
}
