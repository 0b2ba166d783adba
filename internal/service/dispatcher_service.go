package service

import (
	"context"
	"strings"
	"time"

	"merchant-webhooks/internal/core/domain"
	"merchant-webhooks/internal/core/ports"
	"merchant-webhooks/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// dispatcherService implements ports.Dispatcher.
type dispatcherService struct {
	endpoints  ports.EndpointRepository
	deliveries ports.DeliveryRepository
	queue      ports.RetryQueue
	log        zerolog.Logger
	now        func() time.Time
}

// NewDispatcherService creates the fan-out stage between lifecycle events and the worker pool.
func NewDispatcherService(
	endpoints ports.EndpointRepository,
	deliveries ports.DeliveryRepository,
	queue ports.RetryQueue,
	log zerolog.Logger,
) ports.Dispatcher {
	return &dispatcherService{
		endpoints:  endpoints,
		deliveries: deliveries,
		queue:      queue,
		log:        log,
		now:        time.Now,
	}
}

// Dispatch creates one pending attempt per active subscribed endpoint and schedules
// each for immediate delivery. Delivery outcomes never surface here; only a failure
// to resolve endpoints is returned.
func (s *dispatcherService) Dispatch(ctx context.Context, event domain.LifecycleEvent) (int, error) {
	if !event.Type.Valid() {
		return 0, apperror.ErrUnknownEvent(string(event.Type))
	}
	if strings.TrimSpace(event.MerchantID) == "" {
		return 0, apperror.Validation("event merchant id is required")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	now := s.now().UTC()
	if event.OccurredAt.IsZero() {
		event.OccurredAt = now
	}

	payload, err := domain.BuildPayload(event)
	if err != nil {
		return 0, apperror.Validation(err.Error())
	}

	eps, err := s.endpoints.ListSubscribed(ctx, event.MerchantID, event.Type)
	if err != nil {
		return 0, apperror.UpstreamError(err)
	}

	log := s.log.With().
		Str("merchant_id", event.MerchantID).
		Str("event", string(event.Type)).
		Str("event_id", event.ID.String()).
		Logger()

	created := 0
	for i := range eps {
		ep := &eps[i]
		if !ep.Accepts(event.Type) {
			continue
		}
		due := now
		attempt := &domain.DeliveryAttempt{
			ID:            uuid.New(),
			EndpointID:    ep.ID,
			MerchantID:    event.MerchantID,
			EventID:       event.ID,
			Event:         event.Type,
			WebhookURL:    ep.URL,
			Payload:       payload,
			Status:        domain.DeliveryStatusPending,
			NextAttemptAt: &due,
			CreatedAt:     now,
		}
		if err := s.deliveries.Create(ctx, attempt); err != nil {
			log.Error().Err(err).Str("endpoint_id", ep.ID.String()).Msg("failed to record delivery attempt")
			continue
		}
		created++
		// A row that misses the queue stays pending and is picked up by Resume.
		if err := s.queue.Schedule(ctx, attempt.ID, due); err != nil {
			log.Error().Err(err).Str("attempt_id", attempt.ID.String()).Msg("failed to schedule delivery")
		}
	}

	log.Info().Int("endpoints", len(eps)).Int("scheduled", created).Msg("event dispatched")
	return created, nil
}
