package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"merchant-webhooks/internal/core/domain"
	"merchant-webhooks/internal/core/ports"
	"merchant-webhooks/pkg/apperror"

	"github.com/rs/zerolog"
)

const testUserAgent = "SubscriptionPlatform-Webhook-Test/1.0"

// echoed response headers
var reportedHeaders = []string{"content-type", "content-length", "server"}

// reachabilityService implements ports.ReachabilityTester.
type reachabilityService struct {
	sender  *sender
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

// NewReachabilityService creates a tester that sends one test request per call.
func NewReachabilityService(client ports.HTTPClient, timeout time.Duration, bodyLimit int, log zerolog.Logger) ports.ReachabilityTester {
	return &reachabilityService{
		sender:  newSender(client, timeout, bodyLimit),
		timeout: timeout,
		log:     log,
		now:     time.Now,
	}
}

// testEnvelope mirrors domain.Envelope for test requests.
type testEnvelope struct {
	Event    domain.EventType        `json:"event"`
	Data     testData                `json:"data"`
	Metadata domain.EnvelopeMetadata `json:"metadata"`
}

type testData struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Test      bool   `json:"test"`
}

func (s *reachabilityService) defaultPayload(now time.Time) ([]byte, error) {
	return json.Marshal(testEnvelope{
		Event: domain.EventTest,
		Data: testData{
			Message:   "This is a test webhook from your subscription platform",
			Timestamp: now.UTC().Format(time.RFC3339Nano),
			Test:      true,
		},
		Metadata: domain.EnvelopeMetadata{
			TestID:  fmt.Sprintf("test_%d", now.UnixMilli()),
			Version: domain.PayloadVersion,
		},
	})
}

// Test posts to rawURL once. Only an invalid URL or payload is an error; every
// transport outcome is reported in the result.
func (s *reachabilityService) Test(ctx context.Context, rawURL string, payload json.RawMessage) (*ports.TestResult, error) {
	warning, err := CheckEndpointURL(rawURL)
	if err != nil {
		return nil, err
	}

	now := s.now()
	body := []byte(payload)
	if len(payload) == 0 || string(payload) == "null" {
		if body, err = s.defaultPayload(now); err != nil {
			return nil, apperror.InternalError(err)
		}
	} else if !json.Valid(payload) {
		return nil, apperror.Validation("testPayload must be valid JSON")
	}

	if warning != "" {
		s.log.Warn().Str("url", rawURL).Msg("testing webhook over insecure HTTP")
	}

	res := s.sender.Post(ctx, rawURL, body, map[string]string{
		"User-Agent":    testUserAgent,
		HeaderTest:      "true",
		HeaderTimestamp: strconv.FormatInt(now.Unix(), 10),
	})

	out := &ports.TestResult{
		ResponseTimeMs: res.Duration.Milliseconds(),
		Warning:        warning,
	}
	if res.Err != nil {
		kind := ClassifyTransportError(res.Err)
		out.ErrorKind = &kind
		out.Error = transportErrorText(kind)
		out.Message = s.transportMessage(kind, res.Err)
		s.log.Debug().Err(res.Err).Str("url", rawURL).Str("kind", string(kind)).Msg("webhook test failed")
		return out, nil
	}

	status := res.StatusCode
	out.StatusCode = &status
	out.ResponseBody = res.Body
	out.Success = res.Success()
	if out.Success {
		out.Message = fmt.Sprintf("Endpoint responded successfully with status %d", status)
	} else {
		out.Message = fmt.Sprintf("Endpoint returned error status %d", status)
	}
	detail := &ports.TestDetail{Headers: map[string]string{}, StatusText: res.StatusText}
	for _, h := range reportedHeaders {
		if v := res.Header.Get(h); v != "" {
			detail.Headers[h] = v
		}
	}
	out.Details = detail
	return out, nil
}

func (s *reachabilityService) transportMessage(kind ports.ErrorKind, err error) string {
	switch kind {
	case ports.ErrorKindTimeout:
		return fmt.Sprintf("The endpoint did not respond within %s", s.timeout)
	case ports.ErrorKindDNSFailure:
		return "Could not resolve the domain name. Please check the URL."
	case ports.ErrorKindConnectionRefused:
		return "The server refused the connection. Is the endpoint running?"
	default:
		return fmt.Sprintf("Failed to connect to the endpoint: %v", err)
	}
}
