package webhook

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned on HTTP 429. The webhook endpoint allows at
// most 12 pushes per hour per plugin; callers must pace themselves, this
// client does not throttle or retry.
var ErrRateLimited = errors.New("webhook rate limited: at most 12 pushes per hour are allowed")

// APIError is any non-2xx response other than a rate limit.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("webhook API returned status %d: %s", e.Status, e.Body)
}

// RequestError wraps a transport-level failure (connection refused, timeout).
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("webhook request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }
