package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"merchant-webhooks/internal/core/domain"
	"merchant-webhooks/internal/core/ports"
	"merchant-webhooks/internal/core/ports/mocks"
	"merchant-webhooks/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func setupEndpointService(t *testing.T) (ports.EndpointService, *mocks.MockEndpointRepository, *mocks.MockEncryptionService) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEndpointRepository(ctrl)
	enc := mocks.NewMockEncryptionService(ctrl)
	return NewEndpointService(repo, enc, newTestLogger()), repo, enc
}

func TestEndpointService_Create_Success(t *testing.T) {
	svc, repo, enc := setupEndpointService(t)

	var plain string
	enc.EXPECT().Encrypt(gomock.Any()).DoAndReturn(func(p string) (string, error) {
		plain = p
		return "enc:" + p, nil
	})
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ep *domain.WebhookEndpoint) error {
		assert.Equal(t, testMerchant, ep.MerchantID)
		assert.True(t, ep.IsActive)
		assert.Zero(t, ep.TotalSuccess)
		assert.Zero(t, ep.TotalFailure)
		assert.Equal(t, "enc:"+plain, ep.SecretEnc)
		return nil
	})

	resp, err := svc.Create(context.Background(), ports.CreateEndpointRequest{
		MerchantID: testMerchant,
		URL:        "https://merchant.example.com/hooks",
		Events:     []string{"subscription.created", "subscription.cancelled", "subscription.created"},
	})
	require.NoError(t, err)

	assert.Regexp(t, `^whsec_[0-9a-f]{64}$`, resp.Secret)
	assert.Equal(t, plain, resp.Secret)
	assert.Empty(t, resp.Warning)
	assert.Equal(t, []domain.EventType{domain.EventSubscriptionCreated, domain.EventSubscriptionCancelled}, resp.Endpoint.Events)
}

func TestEndpointService_Create_InsecureURLWarns(t *testing.T) {
	svc, repo, enc := setupEndpointService(t)
	enc.EXPECT().Encrypt(gomock.Any()).Return("enc", nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := svc.Create(context.Background(), ports.CreateEndpointRequest{
		MerchantID: testMerchant,
		URL:        "http://merchant.example.com/hooks",
		Events:     []string{"subscription.created"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Warning)
}

func TestEndpointService_Create_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		req  ports.CreateEndpointRequest
		code string
	}{
		{"bad scheme", ports.CreateEndpointRequest{MerchantID: testMerchant, URL: "ftp://x.example.com", Events: []string{"subscription.created"}}, "WHK_003"},
		{"empty events", ports.CreateEndpointRequest{MerchantID: testMerchant, URL: "https://x.example.com", Events: nil}, "WHK_001"},
		{"unknown event", ports.CreateEndpointRequest{MerchantID: testMerchant, URL: "https://x.example.com", Events: []string{"subscription.exploded"}}, "WHK_004"},
		{"test event not subscribable", ports.CreateEndpointRequest{MerchantID: testMerchant, URL: "https://x.example.com", Events: []string{"webhook.test"}}, "WHK_004"},
		{"no merchant", ports.CreateEndpointRequest{URL: "https://x.example.com", Events: []string{"subscription.created"}}, "WHK_001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No repository or encryption calls are expected.
			svc, _, _ := setupEndpointService(t)
			_, err := svc.Create(context.Background(), tt.req)
			assertAppErrorCode(t, err, tt.code)
		})
	}
}

func TestEndpointService_Create_RepoError(t *testing.T) {
	svc, repo, enc := setupEndpointService(t)
	enc.EXPECT().Encrypt(gomock.Any()).Return("enc", nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	_, err := svc.Create(context.Background(), ports.CreateEndpointRequest{
		MerchantID: testMerchant, URL: "https://x.example.com", Events: []string{"subscription.created"},
	})
	assertAppErrorCode(t, err, "SYS_001")
}

func TestEndpointService_Get_NotFoundForOtherMerchant(t *testing.T) {
	svc, repo, _ := setupEndpointService(t)
	id := uuid.New()
	repo.EXPECT().GetForMerchant(gomock.Any(), id, "other-merchant").Return(nil, nil)

	_, err := svc.Get(context.Background(), id, "other-merchant")
	assertAppErrorCode(t, err, "WHK_002")
}

func TestEndpointService_List_EmptyIsNotNil(t *testing.T) {
	svc, repo, _ := setupEndpointService(t)
	repo.EXPECT().ListByMerchant(gomock.Any(), testMerchant).Return(nil, nil)

	eps, err := svc.List(context.Background(), testMerchant)
	require.NoError(t, err)
	assert.NotNil(t, eps)
	assert.Empty(t, eps)
}

func TestEndpointService_Update_Partial(t *testing.T) {
	svc, repo, _ := setupEndpointService(t)
	id := uuid.New()
	existing := &domain.WebhookEndpoint{
		ID:           id,
		MerchantID:   testMerchant,
		URL:          "https://old.example.com",
		Events:       []domain.EventType{domain.EventSubscriptionCreated},
		SecretEnc:    "enc",
		IsActive:     true,
		TotalSuccess: 7,
		TotalFailure: 3,
	}
	repo.EXPECT().GetForMerchant(gomock.Any(), id, testMerchant).Return(existing, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ep *domain.WebhookEndpoint) (bool, error) {
		assert.False(t, ep.IsActive)
		assert.Equal(t, "https://old.example.com", ep.URL)
		assert.Equal(t, int64(7), ep.TotalSuccess)
		assert.Equal(t, int64(3), ep.TotalFailure)
		assert.Equal(t, "enc", ep.SecretEnc)
		return true, nil
	})

	inactive := false
	ep, err := svc.Update(context.Background(), id, testMerchant, domain.EndpointPatch{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, ep.IsActive)
	assert.Equal(t, []domain.EventType{domain.EventSubscriptionCreated}, ep.Events)
}

func TestEndpointService_Update_EventsAndDescription(t *testing.T) {
	svc, repo, _ := setupEndpointService(t)
	id := uuid.New()
	desc := "old"
	repo.EXPECT().GetForMerchant(gomock.Any(), id, testMerchant).Return(&domain.WebhookEndpoint{
		ID: id, MerchantID: testMerchant, URL: "https://x.example.com",
		Events: []domain.EventType{domain.EventSubscriptionCreated}, IsActive: true, Description: &desc,
	}, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(true, nil)

	empty := ""
	ep, err := svc.Update(context.Background(), id, testMerchant, domain.EndpointPatch{
		Events:      []string{"subscription.payment_failed"},
		Description: &empty,
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.EventType{domain.EventSubscriptionPaymentFailed}, ep.Events)
	assert.Nil(t, ep.Description)
}

func TestEndpointService_Update_RejectsEmptyEvents(t *testing.T) {
	svc, repo, _ := setupEndpointService(t)
	id := uuid.New()
	repo.EXPECT().GetForMerchant(gomock.Any(), id, testMerchant).Return(&domain.WebhookEndpoint{ID: id, MerchantID: testMerchant}, nil)

	_, err := svc.Update(context.Background(), id, testMerchant, domain.EndpointPatch{Events: []string{}})
	assertAppErrorCode(t, err, "WHK_001")
}

func TestEndpointService_Update_NotFound(t *testing.T) {
	svc, repo, _ := setupEndpointService(t)
	id := uuid.New()
	repo.EXPECT().GetForMerchant(gomock.Any(), id, "intruder").Return(nil, nil)

	active := true
	_, err := svc.Update(context.Background(), id, "intruder", domain.EndpointPatch{IsActive: &active})
	assertAppErrorCode(t, err, "WHK_002")
}

func TestEndpointService_Delete(t *testing.T) {
	svc, repo, _ := setupEndpointService(t)
	id := uuid.New()

	repo.EXPECT().Delete(gomock.Any(), id, testMerchant).Return(true, nil)
	require.NoError(t, svc.Delete(context.Background(), id, testMerchant))

	repo.EXPECT().Delete(gomock.Any(), id, "intruder").Return(false, nil)
	assertAppErrorCode(t, svc.Delete(context.Background(), id, "intruder"), "WHK_002")
}

func TestEndpointService_RotateSecret(t *testing.T) {
	svc, repo, enc := setupEndpointService(t)
	id := uuid.New()

	enc.EXPECT().Encrypt(gomock.Any()).DoAndReturn(func(p string) (string, error) { return "enc:" + p, nil })
	repo.EXPECT().UpdateSecret(gomock.Any(), id, testMerchant, gomock.Any()).Return(true, nil)

	secret, err := svc.RotateSecret(context.Background(), id, testMerchant)
	require.NoError(t, err)
	assert.Regexp(t, `^whsec_[0-9a-f]{64}$`, secret)
}

func TestEndpointService_RotateSecret_NotFound(t *testing.T) {
	svc, repo, enc := setupEndpointService(t)
	id := uuid.New()

	enc.EXPECT().Encrypt(gomock.Any()).Return("enc", nil)
	repo.EXPECT().UpdateSecret(gomock.Any(), id, testMerchant, "enc").Return(false, nil)

	_, err := svc.RotateSecret(context.Background(), id, testMerchant)
	assertAppErrorCode(t, err, "WHK_002")
}
