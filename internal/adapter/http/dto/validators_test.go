package dto

import (
	"encoding/json"
	"testing"
	"time"

	"merchant-webhooks/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	desc := "  production hooks  "
	req := CreateEndpointRequest{
		URL:         "  https://shop.example.com/hooks  ",
		Description: &desc,
	}
	SanitizeStruct(&req)

	assert.Equal(t, "https://shop.example.com/hooks", req.URL)
	assert.Equal(t, "production hooks", *req.Description)
}

func TestSanitizeStruct_KeepsDescriptionVerbatim(t *testing.T) {
	desc := "  orders & billing <ops>  "
	rawURL := "https://shop.example.com/hooks?a=1&b=2"
	req := UpdateEndpointRequest{URL: &rawURL, Description: &desc}
	SanitizeStruct(&req)

	assert.Equal(t, "orders & billing <ops>", *req.Description)
	assert.Equal(t, "https://shop.example.com/hooks?a=1&b=2", *req.URL)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := UpdateEndpointRequest{}
	SanitizeStruct(&req)
	assert.Nil(t, req.Description)
	assert.Nil(t, req.URL)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestSafeID_Valid(t *testing.T) {
	cases := []string{
		"7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU",
		"merchant-1",
		"a.b.c",
		"ABC-def_GHI.123",
	}
	for _, tc := range cases {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSafeID_Invalid(t *testing.T) {
	cases := []string{
		"wallet 001",  // space
		"wallet<001>", // angle brackets
		"w;DROP",      // semicolon
		"",            // empty
		"../etc",      // slash
		"w\n001",      // newline
	}
	for _, tc := range cases {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %s", tc)
	}
}

func TestCreateEndpointRequest_Binding(t *testing.T) {
	valid := CreateEndpointRequest{URL: "https://shop.example.com/hooks", Events: []string{"subscription.created"}}
	assert.NoError(t, binding.Validator.ValidateStruct(&valid))

	noEvents := CreateEndpointRequest{URL: "https://shop.example.com/hooks", Events: []string{}}
	assert.Error(t, binding.Validator.ValidateStruct(&noEvents))

	badScheme := CreateEndpointRequest{URL: "ftp://shop.example.com", Events: []string{"subscription.created"}}
	assert.Error(t, binding.Validator.ValidateStruct(&badScheme))

	relative := CreateEndpointRequest{URL: "/hooks", Events: []string{"subscription.created"}}
	assert.Error(t, binding.Validator.ValidateStruct(&relative))
}

func TestUpdateEndpointRequest_Patch(t *testing.T) {
	var req UpdateEndpointRequest
	require.NoError(t, json.Unmarshal([]byte(`{"is_active":false,"events":["subscription.cancelled"]}`), &req))
	require.NoError(t, binding.Validator.ValidateStruct(&req))

	p := req.Patch()
	require.NotNil(t, p.IsActive)
	assert.False(t, *p.IsActive)
	assert.Equal(t, []string{"subscription.cancelled"}, p.Events)
	assert.Nil(t, p.URL)
	assert.Nil(t, p.Description)

	assert.True(t, UpdateEndpointRequest{}.Patch().Empty())
}

func TestUpdateEndpointRequest_RejectsEmptyEvents(t *testing.T) {
	var req UpdateEndpointRequest
	require.NoError(t, json.Unmarshal([]byte(`{"events":[]}`), &req))
	assert.Error(t, binding.Validator.ValidateStruct(&req))
}

func TestNewDeliveryLogResponse_EmbedsPayload(t *testing.T) {
	code := 200
	a := &domain.DeliveryAttempt{
		ID: uuid.New(), EndpointID: uuid.New(), EventID: uuid.New(),
		Event:          domain.EventSubscriptionCreated,
		Payload:        []byte(`{"event":"subscription.created","data":{},"metadata":{"version":"1.0"}}`),
		Status:         domain.DeliveryStatusSuccess,
		ResponseStatus: &code,
		CreatedAt:      time.Now(),
	}

	body, err := json.Marshal(NewDeliveryLogResponse(a))
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	payload, ok := out["payload"].(map[string]interface{})
	require.True(t, ok, "payload should render as a JSON object")
	assert.Equal(t, "subscription.created", payload["event"])
	assert.Equal(t, "success", out["status"])
}

func TestTestWebhookRequest_BindsTestPayload(t *testing.T) {
	var req TestWebhookRequest
	err := binding.JSON.BindBody([]byte(`{"url":"https://shop.example.com/hook","testPayload":{"hello":"world"}}`), &req)
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com/hook", req.URL)
	assert.JSONEq(t, `{"hello":"world"}`, string(req.Payload))
}
