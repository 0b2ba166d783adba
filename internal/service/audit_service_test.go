package service

import (
	"context"
	"testing"
	"time"

	"merchant-webhooks/internal/core/domain"
	"merchant-webhooks/internal/core/ports/mocks"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
)

func TestAuditService_Log_PersistsToRepo(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockAuditRepository(ctrl)
	svc := NewAuditService(mockRepo, newTestLogger())

	done := make(chan struct{})
	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, log *domain.AuditLog) error {
			if log.Action != domain.AuditActionRotateSecret {
				t.Errorf("expected ROTATE_SECRET, got %s", log.Action)
			}
			close(done)
			return nil
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	svc.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		MerchantID:   testMerchant,
		Action:       domain.AuditActionRotateSecret,
		ResourceType: "webhook_endpoint",
		ResourceID:   uuid.New().String(),
		IPAddress:    "127.0.0.1",
		CreatedAt:    time.Now(),
	})
	// request context ending must not drop the entry
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("audit log not persisted in time")
	}
}

func TestAuditService_Log_NilRepo(t *testing.T) {
	svc := NewAuditService(nil, newTestLogger())
	svc.Log(context.Background(), &domain.AuditLog{
		ID:        uuid.New(),
		Action:    domain.AuditActionCreateEndpoint,
		CreatedAt: time.Now(),
	})
	// Should not panic; give the goroutine a moment.
	time.Sleep(50 * time.Millisecond)
}
