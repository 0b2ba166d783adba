package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"merchant-webhooks/internal/core/ports"
)

// Outbound header names.
const (
	HeaderSignature = "X-Webhook-Signature"
	HeaderTimestamp = "X-Webhook-Timestamp"
	HeaderEvent     = "X-Webhook-Event"
	HeaderDelivery  = "X-Webhook-Delivery"
	HeaderTest      = "X-Webhook-Test"
)

const defaultBodyLimit = 1000

// sendResult is what one POST produced. Err is set only for transport failures;
// any HTTP status, 5xx included, is a response.
type sendResult struct {
	StatusCode int
	StatusText string
	Body       *string
	Header     http.Header
	Duration   time.Duration
	Err        error
}

// Success reports a 2xx response.
func (r sendResult) Success() bool {
	return r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// sender is the single outbound HTTP primitive shared by the tester and the
// delivery workers.
type sender struct {
	client    ports.HTTPClient
	timeout   time.Duration
	bodyLimit int
}

func newSender(client ports.HTTPClient, timeout time.Duration, bodyLimit int) *sender {
	if bodyLimit <= 0 {
		bodyLimit = defaultBodyLimit
	}
	return &sender{client: client, timeout: timeout, bodyLimit: bodyLimit}
}

// Post sends body to url with the given headers under the sender's timeout.
func (s *sender) Post(ctx context.Context, url string, body []byte, headers map[string]string) sendResult {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return sendResult{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return sendResult{Duration: time.Since(start), Err: err}
	}
	defer resp.Body.Close()

	res := sendResult{
		StatusCode: resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Header:     resp.Header,
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, int64(s.bodyLimit)))
	res.Duration = time.Since(start)
	if readErr == nil {
		b := truncateBody(raw, s.bodyLimit)
		res.Body = &b
	}
	// Drain a little more so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return res
}

// truncateBody cuts raw to limit bytes without splitting a UTF-8 sequence.
func truncateBody(raw []byte, limit int) string {
	if len(raw) > limit {
		raw = raw[:limit]
	}
	return strings.ToValidUTF8(string(raw), "")
}

// ClassifyTransportError maps a failed request to an ErrorKind.
func ClassifyTransportError(err error) ports.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return ports.ErrorKindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ports.ErrorKindTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ports.ErrorKindDNSFailure
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return ports.ErrorKindConnectionRefused
	}
	return ports.ErrorKindNetworkError
}

// transportErrorText is the short label stored in the ledger and returned by the tester.
func transportErrorText(kind ports.ErrorKind) string {
	switch kind {
	case ports.ErrorKindTimeout:
		return "Request timeout"
	case ports.ErrorKindDNSFailure:
		return "DNS resolution failed"
	case ports.ErrorKindConnectionRefused:
		return "Connection refused"
	default:
		return "Network error"
	}
}
