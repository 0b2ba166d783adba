package service

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Backoff computes retry delays: Base*2^(n-1) capped at Max, where n is the
// number of attempts already made.
type Backoff struct {
	Base time.Duration
	Max  time.Duration
}

// Delay returns the wait before the next attempt after n failed attempts.
func (b Backoff) Delay(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	d := b.Base
	for i := 1; i < n; i++ {
		if d >= b.Max/2 {
			return b.Max
		}
		d *= 2
	}
	if d > b.Max {
		return b.Max
	}
	return d
}

// Next returns the delay after n failed attempts, honoring a 429 Retry-After
// when it parses and does not exceed Max.
func (b Backoff) Next(n int, statusCode int, retryAfter string, now time.Time) time.Duration {
	if statusCode == http.StatusTooManyRequests {
		if d, ok := ParseRetryAfter(retryAfter, now); ok && d <= b.Max {
			return d
		}
	}
	return b.Delay(n)
}

// ParseRetryAfter accepts delay-seconds or an HTTP date.
func ParseRetryAfter(v string, now time.Time) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if at, err := http.ParseTime(v); err == nil {
		d := at.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}
