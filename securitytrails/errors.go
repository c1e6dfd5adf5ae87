package securitytrails

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrNoAPIKey = errors.New("SecurityTrails API key is not set")

type ErrorKind int

const (
	// RateLimited means the API kept answering 429 until the retry
	// budget ran out.
	RateLimited = ErrorKind(iota)
	// Rejected means the API refused the request with a non-retryable
	// status (401, 403, 404, malformed request and so on).
	Rejected = ErrorKind(iota)
	// Unavailable means the API kept answering with server errors until
	// the retry budget ran out.
	Unavailable = ErrorKind(iota)
)

func (k ErrorKind) String() string {
	switch k {
	case RateLimited:
		return "rate limited"
	case Rejected:
		return "rejected"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Error is a failure reported by the SecurityTrails API itself, as
// opposed to a transport-level failure.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("SecurityTrails API request %s (HTTP %d)", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("SecurityTrails API request %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
}

func IsRateLimited(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == RateLimited
}

func IsRejected(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == Rejected
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusTooManyRequests:
		return RateLimited
	case status >= 500:
		return Unavailable
	default:
		return Rejected
	}
}
