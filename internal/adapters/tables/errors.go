package tables

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrNetwork marks an exchange that could not complete (DNS, connect, abort).
	ErrNetwork = errors.New("network error")
	// ErrStatus marks a non-2xx response under the strict status policy.
	ErrStatus = errors.New("unexpected status")
	// ErrParse marks a response body that is not valid JSON.
	ErrParse = errors.New("malformed json body")
	// ErrDecode marks JSON that does not match the expected record shape.
	// The wrapped *table.DecodeError lists the offending fields.
	ErrDecode = errors.New("decode failed")
	// ErrAssistUnconfigured is returned by Assist when no endpoint or token is set.
	ErrAssistUnconfigured = errors.New("assist endpoint not configured")
)

// StatusError carries the status code and a truncated body of a rejected response.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: %v: %d %s", e.Op, ErrStatus, e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// outcome classifies err for metrics labels.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrDecode):
		return "decode_error"
	case errors.Is(err, ErrParse):
		return "parse_error"
	case errors.Is(err, ErrStatus):
		return "status_error"
	case errors.Is(err, ErrAssistUnconfigured):
		return "unconfigured"
	case errors.Is(err, ErrNetwork):
		return "network_error"
	default:
		return "error"
	}
}
