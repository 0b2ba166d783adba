package memory

import (
	"context"
	"sync"

	"merchant-webhooks/internal/core/domain"
)

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct {
	mu   sync.Mutex
	logs []domain.AuditLog
}

func NewAuditRepo() *AuditRepo {
	return &AuditRepo{}
}

func (r *AuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *log)
	return nil
}

// Entries returns a snapshot of recorded entries.
func (r *AuditRepo) Entries() []domain.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditLog(nil), r.logs...)
}
