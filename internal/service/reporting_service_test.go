package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"merchant-webhooks/internal/adapter/storage/memory"
	"merchant-webhooks/internal/core/domain"
	"merchant-webhooks/internal/core/ports"
	"merchant-webhooks/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestReportingService_GetStats_FromLedger(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewDeliveryRepo()
	now := time.Now()

	// 9 success, 2 failed, all within the last day
	for i := 0; i < 11; i++ {
		st := domain.DeliveryStatusSuccess
		if i >= 9 {
			st = domain.DeliveryStatusFailed
		}
		require.NoError(t, repo.Create(ctx, &domain.DeliveryAttempt{
			ID: uuid.New(), EndpointID: uuid.New(), MerchantID: testMerchant,
			Event: domain.EventSubscriptionCreated, Status: st, CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		}))
	}

	svc := NewReportingService(repo, nil, 0, newTestLogger())
	stats, err := svc.GetStats(ctx, testMerchant)
	require.NoError(t, err)

	assert.Equal(t, int64(11), stats.Total)
	assert.Equal(t, int64(82), stats.SuccessRate)
	assert.Equal(t, int64(2), stats.Failed)
	assert.Equal(t, int64(11), stats.Last24h)
}

func TestReportingService_GetStats_Empty(t *testing.T) {
	svc := NewReportingService(memory.NewDeliveryRepo(), nil, 0, newTestLogger())
	stats, err := svc.GetStats(context.Background(), testMerchant)
	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryStats{}, *stats)
}

func TestReportingService_GetStats_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDeliveryRepository(ctrl)
	cache := mocks.NewMockStatsCache(ctrl)

	cached := &domain.DeliveryStats{Total: 3, SuccessRate: 67}
	cache.EXPECT().Get(gomock.Any(), testMerchant).Return(cached, nil)

	svc := NewReportingService(repo, cache, 15*time.Second, newTestLogger())
	stats, err := svc.GetStats(context.Background(), testMerchant)
	require.NoError(t, err)
	assert.Equal(t, cached, stats)
}

func TestReportingService_GetStats_CacheMissStores(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDeliveryRepository(ctrl)
	cache := mocks.NewMockStatsCache(ctrl)

	cache.EXPECT().Get(gomock.Any(), testMerchant).Return(nil, nil)
	repo.EXPECT().Stats(gomock.Any(), testMerchant, gomock.Any()).Return(&domain.DeliveryStats{Total: 3, Success: 2}, nil)
	cache.EXPECT().Set(gomock.Any(), testMerchant, &domain.DeliveryStats{Total: 3, Success: 2, SuccessRate: 67}, 15*time.Second).Return(nil)

	svc := NewReportingService(repo, cache, 15*time.Second, newTestLogger())
	stats, err := svc.GetStats(context.Background(), testMerchant)
	require.NoError(t, err)
	assert.Equal(t, int64(67), stats.SuccessRate)
}

func TestReportingService_GetStats_CacheErrorFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDeliveryRepository(ctrl)
	cache := mocks.NewMockStatsCache(ctrl)

	cache.EXPECT().Get(gomock.Any(), testMerchant).Return(nil, errors.New("redis down"))
	repo.EXPECT().Stats(gomock.Any(), testMerchant, gomock.Any()).Return(&domain.DeliveryStats{Total: 1, Success: 1}, nil)
	cache.EXPECT().Set(gomock.Any(), testMerchant, gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	svc := NewReportingService(repo, cache, 15*time.Second, newTestLogger())
	stats, err := svc.GetStats(context.Background(), testMerchant)
	require.NoError(t, err)
	assert.Equal(t, int64(100), stats.SuccessRate)
}

func TestReportingService_GetStats_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDeliveryRepository(ctrl)
	repo.EXPECT().Stats(gomock.Any(), testMerchant, gomock.Any()).Return(nil, errors.New("db down"))

	_, err := NewReportingService(repo, nil, 0, newTestLogger()).GetStats(context.Background(), testMerchant)
	assertAppErrorCode(t, err, "SYS_001")
}

func TestReportingService_GetLogs_LimitNormalized(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultLogLimit},
		{-5, DefaultLogLimit},
		{10, 10},
		{1000, MaxLogLimit},
	}
	for _, tt := range tests {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockDeliveryRepository(ctrl)
		repo.EXPECT().List(gomock.Any(), ports.LogFilter{MerchantID: testMerchant, Limit: tt.want}).Return(nil, nil)

		logs, err := NewReportingService(repo, nil, 0, newTestLogger()).GetLogs(context.Background(), ports.LogFilter{MerchantID: testMerchant, Limit: tt.in})
		require.NoError(t, err)
		assert.NotNil(t, logs)
	}
}

func TestReportingService_GetLogs_InvalidFilters(t *testing.T) {
	svc := NewReportingService(memory.NewDeliveryRepo(), nil, 0, newTestLogger())

	bad := domain.DeliveryStatus("delivered")
	_, err := svc.GetLogs(context.Background(), ports.LogFilter{MerchantID: testMerchant, Status: &bad})
	assertAppErrorCode(t, err, "WHK_001")

	ev := domain.EventType("subscription.exploded")
	_, err = svc.GetLogs(context.Background(), ports.LogFilter{MerchantID: testMerchant, Event: &ev})
	assertAppErrorCode(t, err, "WHK_004")
}
