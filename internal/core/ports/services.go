package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"merchant-webhooks/internal/core/domain"

	"github.com/google/uuid"
)

// EncryptionService protects endpoint secrets at rest.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// SignatureService computes and verifies payload signatures.
type SignatureService interface {
	Sign(secret string, payload []byte) string
	Verify(secret string, payload []byte, signature string) bool
}

// TokenService validates merchant bearer tokens.
type TokenService interface {
	Generate(merchantID string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	MerchantID string
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RetryQueue is a delayed queue of attempt ids keyed by due time.
type RetryQueue interface {
	Schedule(ctx context.Context, attemptID uuid.UUID, at time.Time) error
	// Claim removes and returns up to limit ids due at or before now. Each id is
	// handed to exactly one caller.
	Claim(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	Len(ctx context.Context) (int64, error)
}

// StatsCache caches per-merchant stats for a short TTL.
type StatsCache interface {
	Get(ctx context.Context, merchantID string) (*domain.DeliveryStats, error) // nil on miss
	Set(ctx context.Context, merchantID string, stats *domain.DeliveryStats, ttl time.Duration) error
}

// RateLimitStore counts requests per key in fixed windows.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix timestamp
}

// --- Service Ports (Business Logic) ---

// CreateEndpointRequest holds validated input for endpoint registration.
type CreateEndpointRequest struct {
	MerchantID  string
	URL         string
	Events      []string
	Description *string
}

// CreateEndpointResponse carries the secret, shown exactly once.
type CreateEndpointResponse struct {
	Endpoint *domain.WebhookEndpoint
	Secret   string
	Warning  string // non-empty for insecure (plain http) URLs
}

// EndpointService is the endpoint registry.
type EndpointService interface {
	Create(ctx context.Context, req CreateEndpointRequest) (*CreateEndpointResponse, error)
	List(ctx context.Context, merchantID string) ([]domain.WebhookEndpoint, error)
	Get(ctx context.Context, id uuid.UUID, merchantID string) (*domain.WebhookEndpoint, error)
	Update(ctx context.Context, id uuid.UUID, merchantID string, patch domain.EndpointPatch) (*domain.WebhookEndpoint, error)
	Delete(ctx context.Context, id uuid.UUID, merchantID string) error
	RotateSecret(ctx context.Context, id uuid.UUID, merchantID string) (string, error)
}

// Dispatcher turns lifecycle events into scheduled deliveries.
type Dispatcher interface {
	// Dispatch returns the number of delivery attempts created.
	Dispatch(ctx context.Context, event domain.LifecycleEvent) (int, error)
}

// ReachabilityTester checks a candidate URL once.
type ReachabilityTester interface {
	Test(ctx context.Context, rawURL string, payload json.RawMessage) (*TestResult, error)
}

// ErrorKind classifies a transport failure.
type ErrorKind string

const (
	ErrorKindTimeout           ErrorKind = "Timeout"
	ErrorKindDNSFailure        ErrorKind = "DnsFailure"
	ErrorKindConnectionRefused ErrorKind = "ConnectionRefused"
	ErrorKindNetworkError      ErrorKind = "NetworkError"
)

// TestResult is the reachability verdict. It is never persisted.
type TestResult struct {
	Success        bool        `json:"success"`
	StatusCode     *int        `json:"status,omitempty"`
	ResponseTimeMs int64       `json:"responseTime"`
	ResponseBody   *string     `json:"responseBody,omitempty"`
	Message        string      `json:"message"`
	ErrorKind      *ErrorKind  `json:"errorKind,omitempty"`
	Error          string      `json:"error,omitempty"`
	Warning        string      `json:"warning,omitempty"`
	Details        *TestDetail `json:"details,omitempty"`
}

// TestDetail echoes a few response headers for diagnostics.
type TestDetail struct {
	Headers    map[string]string `json:"headers,omitempty"`
	StatusText string            `json:"statusText,omitempty"`
}

// ReportingService reads the delivery ledger.
type ReportingService interface {
	GetLogs(ctx context.Context, filter LogFilter) ([]domain.DeliveryAttempt, error)
	GetStats(ctx context.Context, merchantID string) (*domain.DeliveryStats, error)
}

// AuditService records registry mutations.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
