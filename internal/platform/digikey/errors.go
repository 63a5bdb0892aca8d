package digikey

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized indicates rejected credentials or an expired token (HTTP 401/403).
type ErrUnauthorized struct {
	Err error
}

func (e ErrUnauthorized) Error() string {
	return fmt.Errorf("unauthorized: %w", e.Err).Error()
}

func (e ErrUnauthorized) Unwrap() error {
	return e.Err
}

// ErrNotFound indicates the part number is unknown to the API (HTTP 404).
type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string {
	return fmt.Errorf("not_found: %w", e.Err).Error()
}

func (e ErrNotFound) Unwrap() error {
	return e.Err
}

// ErrRateLimited indicates the API rejected the call because of its quota (HTTP 429).
type ErrRateLimited struct {
	Err error
}

func (e ErrRateLimited) Error() string {
	return fmt.Errorf("rate_limited: %w", e.Err).Error()
}

func (e ErrRateLimited) Unwrap() error {
	return e.Err
}

// ErrAPI is any other non-2xx response.
type ErrAPI struct {
	StatusCode int
	Message    string
}

func (e ErrAPI) Error() string {
	return fmt.Sprintf("api error: HTTP %d: %s", e.StatusCode, e.Message)
}

func classifyStatus(status int, message string) error {
	base := fmt.Errorf("HTTP %d: %s", status, message)
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized{Err: base}
	case http.StatusNotFound:
		return ErrNotFound{Err: base}
	case http.StatusTooManyRequests:
		return ErrRateLimited{Err: base}
	default:
		return ErrAPI{StatusCode: status, Message: message}
	}
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}
