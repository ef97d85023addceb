package apierr

import (
	"fmt"
	"net/http"
	"strings"
)

// FromStatus maps an HTTP status code and backend message to a wrapped sentinel.
// Returns nil for 2xx codes. Unknown codes produce an unwrapped error that
// still carries the status and message.
func FromStatus(statusCode int, msg string) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	if msg == "" {
		msg = http.StatusText(statusCode)
	}

	switch statusCode {
	case http.StatusTooManyRequests:
		// Quota exhaustion needs user action; a plain rate limit does not.
		if strings.Contains(msg, "quota") || strings.Contains(msg, "billing") {
			return fmt.Errorf("%s: %w", msg, ErrQuotaExceeded)
		}
		return fmt.Errorf("%s: %w", msg, ErrRateLimit)
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", msg, ErrAuthFailed)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return fmt.Errorf("%s: %w", msg, ErrTimeout)
	case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusRequestEntityTooLarge:
		return fmt.Errorf("%s: %w", msg, ErrBadRequest)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return fmt.Errorf("%s: %w", msg, ErrServer)
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, msg)
	}
}
