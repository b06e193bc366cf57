// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package source

import (
	"errors"

	"github.com/ManuGH/tvguide/internal/fetch"
	"github.com/ManuGH/tvguide/internal/model"
)

var (
	// ErrUnknownProvider is returned by New for a provider key outside the supported set.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrChannelNotFound is returned when a channel ID is not in the provider's listing.
	ErrChannelNotFound = model.ErrChannelNotFound
)

// errorType classifies err for span attributes.
func errorType(err error) string {
	switch {
	case errors.Is(err, ErrChannelNotFound):
		return "channel_not_found"
	case errors.Is(err, fetch.ErrNotFound):
		return "not_found"
	case errors.Is(err, fetch.ErrForbidden):
		return "forbidden"
	case errors.Is(err, fetch.ErrUnavailable):
		return "unavailable"
	case fetch.IsHTTPError(err):
		return "http"
	default:
		return "other"
	}
}
