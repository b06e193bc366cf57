// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrNotFound    = errors.New("fetch: resource not found")
	ErrForbidden   = errors.New("fetch: access forbidden")
	ErrUpstream    = errors.New("fetch: upstream internal error (5xx)")
	ErrBadResponse = errors.New("fetch: unexpected response")
	ErrUnavailable = errors.New("fetch: host unreachable or transport failure")
	ErrTooLarge    = errors.New("fetch: response exceeds size limit")
)

// FetchError wraps a sentinel with the request that produced it.
type FetchError struct {
	Sentinel error
	URL      string
	Status   int
	Err      error // lower-level cause, e.g. a net.Error or fs.PathError
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%v: %s", e.Sentinel, e.URL)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the sentinel and the cause to errors.Is / errors.As.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Sentinel}
	}
	return []error{e.Sentinel, e.Err}
}

// IsHTTPError reports whether err is an HTTP status failure (the server
// answered, but not with 2xx). Transport failures are not included.
func IsHTTPError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Status > 0
}

func statusError(url string, status int) error {
	var sentinel error
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		sentinel = ErrNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		sentinel = ErrForbidden
	case status >= 500:
		sentinel = ErrUpstream
	default:
		sentinel = ErrBadResponse
	}
	return &FetchError{Sentinel: sentinel, URL: url, Status: status}
}
