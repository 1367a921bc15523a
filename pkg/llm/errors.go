package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// NetworkError means the request never produced an HTTP response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("llm network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a non-2xx answer from the provider.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
	RetryAfter time.Duration // zero when the provider gave no hint
}

func (e *APIError) Error() string {
	if e.IsRateLimited() {
		if e.RetryAfter > 0 {
			return fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", int(e.RetryAfter.Seconds()))
		}
		return "Rate limit exceeded."
	}
	return fmt.Sprintf("llm api error %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) HTTPStatusCode() int { return e.StatusCode }

func (e *APIError) IsRateLimited() bool { return e.StatusCode == http.StatusTooManyRequests }

// ParsingError means a response arrived but could not be decoded.
type ParsingError struct {
	StatusCode int
	Raw        string
	Err        error
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("llm response parsing failed (status %d): %v", e.StatusCode, e.Err)
}

func (e *ParsingError) Unwrap() error { return e.Err }

func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsRateLimited()
}

// RetryAfterHint is the wait the provider asked for, or zero.
func RetryAfterHint(err error) time.Duration {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.RetryAfter
	}
	return 0
}

// RetryAfter reads a Retry-After header given either as seconds or as an
// HTTP date. It returns zero when the header is absent or unusable.
func RetryAfter(h http.Header, now time.Time) time.Duration {
	ra := strings.TrimSpace(h.Get("Retry-After"))
	if ra == "" {
		return 0
	}
	if secs, err := strconv.Atoi(ra); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(ra); err == nil && at.After(now) {
		return at.Sub(now).Round(time.Second)
	}
	return 0
}
