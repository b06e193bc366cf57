// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ManuGH/tvguide/internal/log"
	"github.com/ManuGH/tvguide/internal/model"
)

// Error codes of the JSON error body.
const (
	codeChannelNotFound = "channel_not_found"
	codeUpstreamFailed  = "upstream_failed"
	codeBadRequest      = "bad_request"
	codeNotFound        = "not_found"
)

type errorBody struct {
	Error     string `json:"error"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorCode(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	writeJSON(w, status, errorBody{
		Error:     code,
		Detail:    detail,
		RequestID: log.RequestIDFromContext(r.Context()),
	})
}

// writeSourceError maps a guide lookup failure onto an HTTP status. Anything
// that is not a missing channel is a provider fetch or parse failure.
func writeSourceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, model.ErrChannelNotFound) {
		writeErrorCode(w, r, http.StatusNotFound, codeChannelNotFound, err.Error())
		return
	}

	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Warn().
		Err(err).
		Str(log.FieldEvent, "api.upstream_failed").
		Str(log.FieldPath, r.URL.Path).
		Msg("guide lookup failed")
	writeErrorCode(w, r, http.StatusBadGateway, codeUpstreamFailed, err.Error())
}
