package service

import (
	"net"
	"net/url"
	"strings"

	"merchant-webhooks/pkg/apperror"
)

const insecureURLWarning = "URL does not use HTTPS; payloads will be sent in clear text"

// CheckEndpointURL validates a delivery target. Only absolute http(s) URLs with a
// host are accepted. Plain http to a non-loopback host yields a warning.
func CheckEndpointURL(raw string) (warning string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperror.ErrInvalidURL("url is required")
	}
	u, perr := url.Parse(raw)
	if perr != nil {
		return "", apperror.ErrInvalidURL("url is malformed")
	}
	switch u.Scheme {
	case "https":
	case "http":
		if !isLoopback(u.Hostname()) {
			warning = insecureURLWarning
		}
	default:
		return "", apperror.ErrInvalidURL("url scheme must be http or https")
	}
	if u.Hostname() == "" {
		return "", apperror.ErrInvalidURL("url must include a host")
	}
	if u.User != nil {
		return "", apperror.ErrInvalidURL("url must not embed credentials")
	}
	return warning, nil
}

func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
