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

// endpointService implements ports.EndpointService.
type endpointService struct {
	repo   ports.EndpointRepository
	encSvc ports.EncryptionService
	log    zerolog.Logger
	now    func() time.Time
}

// NewEndpointService creates the endpoint registry.
func NewEndpointService(repo ports.EndpointRepository, encSvc ports.EncryptionService, log zerolog.Logger) ports.EndpointService {
	return &endpointService{
		repo:   repo,
		encSvc: encSvc,
		log:    log,
		now:    time.Now,
	}
}

// Create validates and stores a new endpoint. The plaintext secret is returned
// here and on rotation only.
func (s *endpointService) Create(ctx context.Context, req ports.CreateEndpointRequest) (*ports.CreateEndpointResponse, error) {
	if strings.TrimSpace(req.MerchantID) == "" {
		return nil, apperror.Validation("merchant id is required")
	}
	warning, err := CheckEndpointURL(req.URL)
	if err != nil {
		return nil, err
	}
	events, err := parseEvents(req.Events)
	if err != nil {
		return nil, err
	}

	secret, err := GenerateEndpointSecret()
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	secretEnc, err := s.encSvc.Encrypt(secret)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(err)
	}

	now := s.now().UTC()
	ep := &domain.WebhookEndpoint{
		ID:          uuid.New(),
		MerchantID:  req.MerchantID,
		URL:         strings.TrimSpace(req.URL),
		Events:      events,
		SecretEnc:   secretEnc,
		IsActive:    true,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, ep); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	logEvt := s.log.Info()
	if warning != "" {
		logEvt = s.log.Warn().Str("warning", warning)
	}
	logEvt.
		Str("merchant_id", ep.MerchantID).
		Str("endpoint_id", ep.ID.String()).
		Str("url", ep.URL).
		Msg("webhook endpoint created")

	return &ports.CreateEndpointResponse{Endpoint: ep, Secret: secret, Warning: warning}, nil
}

// List returns the merchant's endpoints, newest first.
func (s *endpointService) List(ctx context.Context, merchantID string) ([]domain.WebhookEndpoint, error) {
	eps, err := s.repo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if eps == nil {
		eps = []domain.WebhookEndpoint{}
	}
	return eps, nil
}

func (s *endpointService) Get(ctx context.Context, id uuid.UUID, merchantID string) (*domain.WebhookEndpoint, error) {
	ep, err := s.repo.GetForMerchant(ctx, id, merchantID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if ep == nil {
		return nil, apperror.ErrNotFound("endpoint")
	}
	return ep, nil
}

// Update applies a partial patch. Counters and secret are never touched here.
func (s *endpointService) Update(ctx context.Context, id uuid.UUID, merchantID string, patch domain.EndpointPatch) (*domain.WebhookEndpoint, error) {
	ep, err := s.Get(ctx, id, merchantID)
	if err != nil {
		return nil, err
	}

	if patch.URL != nil {
		warning, err := CheckEndpointURL(*patch.URL)
		if err != nil {
			return nil, err
		}
		if warning != "" {
			s.log.Warn().Str("endpoint_id", id.String()).Str("warning", warning).Msg("webhook endpoint url updated")
		}
		ep.URL = strings.TrimSpace(*patch.URL)
	}
	if patch.Events != nil {
		events, err := parseEvents(patch.Events)
		if err != nil {
			return nil, err
		}
		ep.Events = events
	}
	if patch.IsActive != nil {
		ep.IsActive = *patch.IsActive
	}
	if patch.Description != nil {
		if *patch.Description == "" {
			ep.Description = nil
		} else {
			d := *patch.Description
			ep.Description = &d
		}
	}
	ep.UpdatedAt = s.now().UTC()

	found, err := s.repo.Update(ctx, ep)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if !found {
		// deleted concurrently
		return nil, apperror.ErrNotFound("endpoint")
	}
	return ep, nil
}

// Delete removes the endpoint. Attempts already in flight are abandoned by the worker.
func (s *endpointService) Delete(ctx context.Context, id uuid.UUID, merchantID string) error {
	found, err := s.repo.Delete(ctx, id, merchantID)
	if err != nil {
		return apperror.ErrDatabaseError(err)
	}
	if !found {
		return apperror.ErrNotFound("endpoint")
	}
	s.log.Info().Str("merchant_id", merchantID).Str("endpoint_id", id.String()).Msg("webhook endpoint deleted")
	return nil
}

// RotateSecret replaces the signing secret and returns the new plaintext once.
func (s *endpointService) RotateSecret(ctx context.Context, id uuid.UUID, merchantID string) (string, error) {
	secret, err := GenerateEndpointSecret()
	if err != nil {
		return "", apperror.InternalError(err)
	}
	secretEnc, err := s.encSvc.Encrypt(secret)
	if err != nil {
		return "", apperror.ErrEncryptionFailure(err)
	}
	found, err := s.repo.UpdateSecret(ctx, id, merchantID, secretEnc)
	if err != nil {
		return "", apperror.ErrDatabaseError(err)
	}
	if !found {
		return "", apperror.ErrNotFound("endpoint")
	}
	s.log.Info().Str("merchant_id", merchantID).Str("endpoint_id", id.String()).Msg("webhook secret rotated")
	return secret, nil
}

func parseEvents(names []string) ([]domain.EventType, error) {
	if len(names) == 0 {
		return nil, apperror.Validation("at least one event is required")
	}
	events, err := domain.ParseEventTypes(names)
	if err != nil {
		for _, n := range names {
			if !domain.EventType(n).Valid() {
				return nil, apperror.ErrUnknownEvent(n)
			}
		}
		return nil, apperror.Validation(err.Error())
	}
	return events, nil
}
