package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionCreateEndpoint AuditAction = "CREATE_ENDPOINT"
	AuditActionUpdateEndpoint AuditAction = "UPDATE_ENDPOINT"
	AuditActionDeleteEndpoint AuditAction = "DELETE_ENDPOINT"
	AuditActionRotateSecret   AuditAction = "ROTATE_SECRET"
)

// AuditLog records a single registry mutation.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	MerchantID   string      `json:"merchant_id"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
