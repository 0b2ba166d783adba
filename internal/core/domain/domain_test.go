package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_Valid(t *testing.T) {
	for _, e := range EventCatalog() {
		assert.True(t, e.Valid(), string(e))
	}
	assert.False(t, EventTest.Valid(), "test event must not be subscribable")
	assert.False(t, EventType("subscription.paused").Valid())
}

func TestParseEventTypes(t *testing.T) {
	events, err := ParseEventTypes([]string{
		"subscription.created",
		"subscription.cancelled",
		"subscription.created",
	})
	require.NoError(t, err)
	assert.Equal(t, []EventType{EventSubscriptionCreated, EventSubscriptionCancelled}, events)

	_, err = ParseEventTypes([]string{"subscription.created", "invoice.paid"})
	assert.ErrorContains(t, err, "invoice.paid")
}

func TestWebhookEndpoint_Accepts(t *testing.T) {
	ep := &WebhookEndpoint{
		IsActive: true,
		Events:   []EventType{EventSubscriptionCreated},
	}

	assert.True(t, ep.Accepts(EventSubscriptionCreated))
	assert.False(t, ep.Accepts(EventSubscriptionPaymentFailed))

	ep.IsActive = false
	assert.False(t, ep.Accepts(EventSubscriptionCreated))
	assert.True(t, ep.Subscribes(EventSubscriptionCreated))
}

func TestEndpointPatch_Empty(t *testing.T) {
	assert.True(t, EndpointPatch{}.Empty())

	active := false
	assert.False(t, EndpointPatch{IsActive: &active}.Empty())
	assert.False(t, EndpointPatch{Events: []string{}}.Empty())
}

func TestDeliveryStatus(t *testing.T) {
	tests := []struct {
		status   DeliveryStatus
		valid    bool
		terminal bool
	}{
		{DeliveryStatusPending, true, false},
		{DeliveryStatusSuccess, true, true},
		{DeliveryStatusFailed, true, true},
		{DeliveryStatus("delivered"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.Valid())
			assert.Equal(t, tt.terminal, tt.status.Terminal())
		})
	}
}

func TestDeliveryStats_ComputeSuccessRate(t *testing.T) {
	tests := []struct {
		name    string
		success int64
		total   int64
		want    int64
	}{
		{"seven of ten", 7, 10, 70},
		{"nine of eleven rounds up", 9, 11, 82},
		{"one of three rounds down", 1, 3, 33},
		{"two of three rounds up", 2, 3, 67},
		{"all", 4, 4, 100},
		{"empty ledger", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DeliveryStats{Success: tt.success, Total: tt.total}
			s.ComputeSuccessRate()
			assert.Equal(t, tt.want, s.SuccessRate)
		})
	}
}

func TestAttemptResult_Apply(t *testing.T) {
	code := 503
	now := time.Now()
	a := &DeliveryAttempt{Status: DeliveryStatusPending}

	AttemptResult{
		Status:         DeliveryStatusPending,
		ResponseStatus: &code,
		RetryCount:     2,
		DeliveryTimeMs: 120,
		NextAttemptAt:  &now,
	}.Apply(a)

	assert.True(t, a.IsPending())
	assert.Equal(t, 2, a.RetryCount)
	require.NotNil(t, a.DeliveryTimeMs)
	assert.Equal(t, int64(120), *a.DeliveryTimeMs)
	assert.Equal(t, &code, a.ResponseStatus)
	assert.Nil(t, a.DeliveredAt)
}

func TestDecodeEventData(t *testing.T) {
	raw := json.RawMessage(`{"subscriptionPda":"SubPda1","userWallet":"User1","planPda":"Plan1","amount":"1000000","reason":"insufficient funds"}`)

	data, err := DecodeEventData(EventSubscriptionPaymentFailed, raw)
	require.NoError(t, err)

	failed, ok := data.(*PaymentFailed)
	require.True(t, ok)
	assert.Equal(t, "insufficient funds", failed.Reason)
	assert.Equal(t, EventSubscriptionPaymentFailed, failed.EventType())
}

func TestDecodeEventData_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		event EventType
		raw   string
	}{
		{"unknown event", EventType("subscription.paused"), `{}`},
		{"unknown field", EventSubscriptionCancelled, `{"subscriptionPda":"a","userWallet":"b","planPda":"c","extra":1}`},
		{"missing required field", EventSubscriptionPaymentSucceeded, `{"subscriptionPda":"a","userWallet":"b","planPda":"c","amount":"5"}`},
		{"malformed", EventSubscriptionCreated, `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEventData(tt.event, json.RawMessage(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestBuildPayload_Deterministic(t *testing.T) {
	ev := LifecycleEvent{
		ID:         uuid.MustParse("7b0c7a52-3a8f-4a57-9c35-0d5d3c1f9a10"),
		Type:       EventSubscriptionCreated,
		MerchantID: "MerchantWallet111",
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Data:       json.RawMessage(`{ "subscriptionPda": "S1",  "userWallet": "U1" }`),
	}

	first, err := BuildPayload(ev)
	require.NoError(t, err)
	second, err := BuildPayload(ev)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.JSONEq(t, `{
		"event": "subscription.created",
		"data": {"subscriptionPda": "S1", "userWallet": "U1"},
		"metadata": {
			"eventId": "7b0c7a52-3a8f-4a57-9c35-0d5d3c1f9a10",
			"merchantId": "MerchantWallet111",
			"occurredAt": "2026-01-02T03:04:05Z",
			"version": "1.0"
		}
	}`, string(first))
	assert.Contains(t, string(first), `{"event":"subscription.created","data":{"subscriptionPda":"S1","userWallet":"U1"}`)
}

func TestBuildPayload_InvalidData(t *testing.T) {
	_, err := BuildPayload(LifecycleEvent{Type: EventSubscriptionCreated, Data: json.RawMessage(`{nope`)})
	assert.Error(t, err)
}
