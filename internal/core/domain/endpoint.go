package domain

import (
	"time"

	"github.com/google/uuid"
)

// WebhookEndpoint is a merchant-owned delivery target.
type WebhookEndpoint struct {
	ID            uuid.UUID   `json:"id"`
	MerchantID    string      `json:"merchant_id"`
	URL           string      `json:"url"`
	Events        []EventType `json:"events"`
	SecretEnc     string      `json:"-"` // Encrypted, never expose
	IsActive      bool        `json:"is_active"`
	Description   *string     `json:"description,omitempty"`
	TotalSuccess  int64       `json:"total_success"`
	TotalFailure  int64       `json:"total_failure"`
	LastSuccessAt *time.Time  `json:"last_success_at,omitempty"`
	LastFailureAt *time.Time  `json:"last_failure_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Subscribes reports whether the endpoint should receive events of type e.
func (ep *WebhookEndpoint) Subscribes(e EventType) bool {
	for _, s := range ep.Events {
		if s == e {
			return true
		}
	}
	return false
}

// Accepts reports whether the dispatcher may deliver e to the endpoint now.
func (ep *WebhookEndpoint) Accepts(e EventType) bool {
	return ep.IsActive && ep.Subscribes(e)
}

// EventNames returns the subscribed events as plain strings (storage form).
func (ep *WebhookEndpoint) EventNames() []string {
	out := make([]string, len(ep.Events))
	for i, e := range ep.Events {
		out[i] = string(e)
	}
	return out
}

// EndpointPatch carries a partial update; nil fields are left untouched.
type EndpointPatch struct {
	IsActive    *bool
	Description *string
	Events      []string // nil = unchanged
	URL         *string
}

// Empty reports whether the patch changes nothing.
func (p EndpointPatch) Empty() bool {
	return p.IsActive == nil && p.Description == nil && p.Events == nil && p.URL == nil
}
