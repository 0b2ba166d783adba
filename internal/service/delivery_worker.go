package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"merchant-webhooks/internal/core/domain"
	"merchant-webhooks/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DeliveryWorkerConfig tunes the worker pool.
type DeliveryWorkerConfig struct {
	Workers       int
	MaxRetries    int
	Backoff       Backoff
	Timeout       time.Duration
	PollInterval  time.Duration
	BatchSize     int
	BodyLimit     int
	UserAgent     string
	MaxPendingAge time.Duration
}

const (
	msgEndpointDeleted  = "abandoned: endpoint deleted"
	msgEndpointInactive = "abandoned: endpoint inactive"
	msgSecretMissing    = "abandoned: signing secret unavailable"
	msgStale            = "expired: no terminal outcome within the maximum pending age"
)

// DeliveryWorker executes scheduled attempts from the retry queue.
type DeliveryWorker struct {
	cfg        DeliveryWorkerConfig
	endpoints  ports.EndpointRepository
	deliveries ports.DeliveryRepository
	queue      ports.RetryQueue
	encSvc     ports.EncryptionService
	sigSvc     ports.SignatureService
	sender     *sender
	log        zerolog.Logger
	now        func() time.Time
}

// NewDeliveryWorker creates a worker pool. Call Run to start it.
func NewDeliveryWorker(
	cfg DeliveryWorkerConfig,
	endpoints ports.EndpointRepository,
	deliveries ports.DeliveryRepository,
	queue ports.RetryQueue,
	encSvc ports.EncryptionService,
	sigSvc ports.SignatureService,
	client ports.HTTPClient,
	log zerolog.Logger,
) *DeliveryWorker {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 100
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &DeliveryWorker{
		cfg:        cfg,
		endpoints:  endpoints,
		deliveries: deliveries,
		queue:      queue,
		encSvc:     encSvc,
		sigSvc:     sigSvc,
		sender:     newSender(client, cfg.Timeout, cfg.BodyLimit),
		log:        log,
		now:        time.Now,
	}
}

// Run polls the queue and feeds claimed attempts to the workers until ctx is
// cancelled. In-flight attempts finish before Run returns.
func (w *DeliveryWorker) Run(ctx context.Context) {
	jobs := make(chan uuid.UUID, w.cfg.BatchSize)
	var wg sync.WaitGroup
	for i := 0; i < w.cfg.Workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for id := range jobs {
				// Attempts run to completion on shutdown.
				if err := w.Execute(context.WithoutCancel(ctx), id); err != nil {
					w.log.Error().Err(err).Int("worker", n).Str("attempt_id", id.String()).Msg("delivery attempt errored")
				}
			}
		}(i)
	}

	w.log.Info().Int("workers", w.cfg.Workers).Dur("poll_interval", w.cfg.PollInterval).Msg("delivery workers started")

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()
	for {
		w.dispatchDue(ctx, jobs)
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			w.log.Info().Msg("delivery workers stopped")
			return
		case <-ticker.C:
		}
	}
}

// dispatchDue claims due attempts until the queue has none left or ctx ends.
func (w *DeliveryWorker) dispatchDue(ctx context.Context, jobs chan<- uuid.UUID) {
	for ctx.Err() == nil {
		ids, err := w.queue.Claim(ctx, w.now(), w.cfg.BatchSize)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				w.log.Error().Err(err).Msg("failed to claim due deliveries")
			}
			return
		}
		for i, id := range ids {
			select {
			case jobs <- id:
			case <-ctx.Done():
				// Hand unsent claims back so they survive the shutdown.
				w.requeue(ids[i:])
				return
			}
		}
		if len(ids) < w.cfg.BatchSize {
			return
		}
	}
}

func (w *DeliveryWorker) requeue(ids []uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	now := w.now()
	for _, id := range ids {
		if err := w.queue.Schedule(ctx, id, now); err != nil {
			w.log.Warn().Err(err).Str("attempt_id", id.String()).Msg("failed to requeue claimed delivery")
		}
	}
}

// Execute performs one delivery attempt for the row id and records its outcome.
func (w *DeliveryWorker) Execute(ctx context.Context, id uuid.UUID) error {
	attempt, err := w.deliveries.GetByID(ctx, id)
	if err != nil {
		w.retryLater(ctx, id)
		return fmt.Errorf("loading attempt: %w", err)
	}
	if attempt == nil || !attempt.IsPending() {
		return nil
	}
	log := w.log.With().
		Str("attempt_id", id.String()).
		Str("endpoint_id", attempt.EndpointID.String()).
		Str("event", string(attempt.Event)).
		Logger()

	ep, err := w.endpoints.GetByID(ctx, attempt.EndpointID)
	if err != nil {
		w.retryLater(ctx, id)
		return fmt.Errorf("loading endpoint: %w", err)
	}
	switch {
	case ep == nil:
		return w.abandon(ctx, attempt, msgEndpointDeleted, log)
	case !ep.IsActive:
		return w.abandon(ctx, attempt, msgEndpointInactive, log)
	}

	secret, err := w.encSvc.Decrypt(ep.SecretEnc)
	if err != nil {
		log.Error().Err(err).Msg("failed to decrypt endpoint secret")
		return w.abandon(ctx, attempt, msgSecretMissing, log)
	}

	now := w.now()
	headers := map[string]string{
		"User-Agent":    w.cfg.UserAgent,
		HeaderSignature: w.sigSvc.Sign(secret, attempt.Payload),
		HeaderTimestamp: strconv.FormatInt(now.Unix(), 10),
		HeaderEvent:     string(attempt.Event),
		HeaderDelivery:  attempt.ID.String(),
	}
	res := w.sender.Post(ctx, ep.URL, attempt.Payload, headers)
	finished := w.now().UTC()

	result := domain.AttemptResult{
		RetryCount:     attempt.RetryCount,
		DeliveryTimeMs: res.Duration.Milliseconds(),
		ResponseBody:   res.Body,
	}
	if res.Err == nil {
		status := res.StatusCode
		result.ResponseStatus = &status
	}

	if res.Success() {
		result.Status = domain.DeliveryStatusSuccess
		result.DeliveredAt = &finished
		applied, err := w.deliveries.Record(ctx, id, result)
		if err != nil {
			return fmt.Errorf("recording success: %w", err)
		}
		if applied {
			if err := w.endpoints.IncrementSuccess(ctx, ep.ID, finished); err != nil {
				log.Error().Err(err).Msg("failed to increment success counter")
			}
			log.Info().Int("status", res.StatusCode).Int64("ms", result.DeliveryTimeMs).Msg("webhook delivered")
		}
		return nil
	}

	result.RetryCount = attempt.RetryCount + 1
	msg := failureMessage(res)
	result.ErrorMessage = &msg

	if result.RetryCount >= w.cfg.MaxRetries {
		result.Status = domain.DeliveryStatusFailed
		result.DeliveredAt = &finished
		applied, err := w.deliveries.Record(ctx, id, result)
		if err != nil {
			return fmt.Errorf("recording failure: %w", err)
		}
		if applied {
			if err := w.endpoints.IncrementFailure(ctx, ep.ID, finished); err != nil {
				log.Error().Err(err).Msg("failed to increment failure counter")
			}
			log.Warn().Int("attempts", result.RetryCount).Str("error", msg).Msg("webhook delivery failed permanently")
		}
		return nil
	}

	retryAfter := ""
	if res.Header != nil {
		retryAfter = res.Header.Get("Retry-After")
	}
	next := finished.Add(w.cfg.Backoff.Next(result.RetryCount, res.StatusCode, retryAfter, finished))
	result.Status = domain.DeliveryStatusPending
	result.NextAttemptAt = &next
	applied, err := w.deliveries.Record(ctx, id, result)
	if err != nil {
		return fmt.Errorf("recording retry: %w", err)
	}
	if !applied {
		return nil
	}
	if err := w.queue.Schedule(ctx, id, next); err != nil {
		return fmt.Errorf("scheduling retry: %w", err)
	}
	log.Info().Int("attempt", result.RetryCount).Time("next_attempt_at", next).Str("error", msg).Msg("webhook delivery will be retried")
	return nil
}

// abandon closes an attempt whose endpoint can no longer receive it. Endpoint
// counters are not touched.
func (w *DeliveryWorker) abandon(ctx context.Context, a *domain.DeliveryAttempt, reason string, log zerolog.Logger) error {
	at := w.now().UTC()
	msg := reason
	if _, err := w.deliveries.Record(ctx, a.ID, domain.AttemptResult{
		Status:       domain.DeliveryStatusFailed,
		ErrorMessage: &msg,
		RetryCount:   a.RetryCount,
		DeliveredAt:  &at,
	}); err != nil {
		return fmt.Errorf("abandoning attempt: %w", err)
	}
	log.Info().Str("reason", reason).Msg("webhook delivery abandoned")
	return nil
}

// retryLater puts an attempt back after an infrastructure error.
func (w *DeliveryWorker) retryLater(ctx context.Context, id uuid.UUID) {
	if err := w.queue.Schedule(ctx, id, w.now().Add(w.cfg.PollInterval)); err != nil {
		w.log.Error().Err(err).Str("attempt_id", id.String()).Msg("failed to reschedule delivery")
	}
}

// Resume re-schedules every persisted pending attempt at its due time. It is run
// once at start so deliveries survive restarts.
func (w *DeliveryWorker) Resume(ctx context.Context) (int, error) {
	pending, err := w.deliveries.ListPending(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("listing pending attempts: %w", err)
	}
	now := w.now()
	for _, a := range pending {
		due := now
		if a.NextAttemptAt != nil && a.NextAttemptAt.After(now) {
			due = *a.NextAttemptAt
		}
		if err := w.queue.Schedule(ctx, a.ID, due); err != nil {
			return 0, fmt.Errorf("scheduling attempt %s: %w", a.ID, err)
		}
	}
	if len(pending) > 0 {
		w.log.Info().Int("count", len(pending)).Msg("resumed pending deliveries")
	}
	return len(pending), nil
}

// Reap fails attempts left pending longer than MaxPendingAge and counts each as
// a failure on its endpoint.
func (w *DeliveryWorker) Reap(ctx context.Context) (int, error) {
	if w.cfg.MaxPendingAge <= 0 {
		return 0, nil
	}
	now := w.now().UTC()
	stale, err := w.deliveries.FailStale(ctx, now.Add(-w.cfg.MaxPendingAge), msgStale, now)
	if err != nil {
		return 0, fmt.Errorf("failing stale attempts: %w", err)
	}
	for _, a := range stale {
		if err := w.endpoints.IncrementFailure(ctx, a.EndpointID, now); err != nil {
			w.log.Error().Err(err).Str("attempt_id", a.ID.String()).Msg("failed to increment failure counter")
		}
	}
	if len(stale) > 0 {
		w.log.Warn().Int("count", len(stale)).Msg("reaped stale pending deliveries")
	}
	return len(stale), nil
}

// RunReaper calls Reap every interval until ctx is cancelled.
func (w *DeliveryWorker) RunReaper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := w.Reap(ctx); err != nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("reaper run failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func failureMessage(res sendResult) string {
	if res.Err != nil {
		return fmt.Sprintf("%s: %v", transportErrorText(ClassifyTransportError(res.Err)), res.Err)
	}
	return fmt.Sprintf("HTTP %d", res.StatusCode)
}
