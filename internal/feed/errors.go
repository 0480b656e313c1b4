package feed

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonesrussell/north-cloud/startup-scout/internal/fetcher"
)

// ErrorType classifies feed failures for logging and metrics.
type ErrorType string

const (
	ErrTypeRateLimited ErrorType = "rate_limited"
	ErrTypeForbidden   ErrorType = "forbidden"
	ErrTypeNotFound    ErrorType = "not_found"
	ErrTypeUpstream    ErrorType = "upstream_failure"
	ErrTypeStatus      ErrorType = "unexpected_status"
	ErrTypeNetwork     ErrorType = "network"
	ErrTypeParse       ErrorType = "parse_error"
)

// FetchError is a classified feed failure.
type FetchError struct {
	Type       ErrorType
	StatusCode int
	URL        string
	Cause      error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("feed %s: HTTP %d for %s", e.Type, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("feed %s: %v for %s", e.Type, e.Cause, e.URL)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// classifyFetchError turns a fetcher error into a FetchError.
func classifyFetchError(err error, url string) *FetchError {
	var statusErr *fetcher.StatusError
	if !errors.As(err, &statusErr) {
		return &FetchError{Type: ErrTypeNetwork, URL: url, Cause: err}
	}

	fe := &FetchError{StatusCode: statusErr.StatusCode, URL: url, Cause: err}

	switch code := statusErr.StatusCode; {
	case code == http.StatusTooManyRequests:
		fe.Type = ErrTypeRateLimited
	case code == http.StatusForbidden:
		fe.Type = ErrTypeForbidden
	case code == http.StatusNotFound || code == http.StatusGone:
		fe.Type = ErrTypeNotFound
	case code >= http.StatusInternalServerError:
		fe.Type = ErrTypeUpstream
	default:
		fe.Type = ErrTypeStatus
	}

	return fe
}

// ErrorTypeOf returns the classification of err, or "" when err is not a FetchError.
func ErrorTypeOf(err error) ErrorType {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Type
	}
	return ""
}
