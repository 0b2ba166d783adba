package service

import (
	"context"
	"time"

	"merchant-webhooks/internal/core/domain"
	"merchant-webhooks/internal/core/ports"
	"merchant-webhooks/pkg/apperror"

	"github.com/rs/zerolog"
)

const (
	DefaultLogLimit = 50
	MaxLogLimit     = 200
)

// reportingService implements ports.ReportingService.
type reportingService struct {
	deliveries ports.DeliveryRepository
	cache      ports.StatsCache // optional
	cacheTTL   time.Duration
	log        zerolog.Logger
	now        func() time.Time
}

// NewReportingService creates the ledger reader. cache may be nil.
func NewReportingService(deliveries ports.DeliveryRepository, cache ports.StatsCache, cacheTTL time.Duration, log zerolog.Logger) ports.ReportingService {
	return &reportingService{
		deliveries: deliveries,
		cache:      cache,
		cacheTTL:   cacheTTL,
		log:        log,
		now:        time.Now,
	}
}

// GetLogs lists the merchant's attempts newest first.
func (s *reportingService) GetLogs(ctx context.Context, filter ports.LogFilter) ([]domain.DeliveryAttempt, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultLogLimit
	case filter.Limit > MaxLogLimit:
		filter.Limit = MaxLogLimit
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperror.Validation("invalid status filter")
	}
	if filter.Event != nil && !filter.Event.Valid() {
		return nil, apperror.ErrUnknownEvent(string(*filter.Event))
	}

	logs, err := s.deliveries.List(ctx, filter)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if logs == nil {
		logs = []domain.DeliveryAttempt{}
	}
	return logs, nil
}

// GetStats aggregates the ledger. Results may be served from cache for up to
// the configured TTL.
func (s *reportingService) GetStats(ctx context.Context, merchantID string) (*domain.DeliveryStats, error) {
	if s.cache != nil && s.cacheTTL > 0 {
		cached, err := s.cache.Get(ctx, merchantID)
		if err != nil {
			s.log.Warn().Err(err).Msg("stats cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	stats, err := s.deliveries.Stats(ctx, merchantID, s.now().Add(-24*time.Hour))
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	stats.ComputeSuccessRate()

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, merchantID, stats, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("stats cache write failed")
		}
	}
	return stats, nil
}
