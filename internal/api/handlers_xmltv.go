// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"strconv"

	"github.com/ManuGH/tvguide/internal/epg"
	"github.com/ManuGH/tvguide/internal/log"
	"github.com/ManuGH/tvguide/internal/source"
)

// handleXMLTV renders the whole guide as one XMLTV document.
func (s *Server) handleXMLTV(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "api")

	channels, programmes, err := s.guide.Guide(r.Context(), source.DefaultGuideConcurrency)
	if err != nil {
		writeSourceError(w, r, err)
		return
	}

	data, err := epg.Encode(epg.FromModel(channels, programmes))
	if err != nil {
		logger.Error().Err(err).Str(log.FieldEvent, "xmltv.encode_failed").Msg("failed to encode XMLTV")
		writeErrorCode(w, r, http.StatusInternalServerError, "internal_error", "failed to encode guide")
		return
	}

	logger.Debug().
		Str(log.FieldEvent, "xmltv.served").
		Int("channels", len(channels)).
		Int("programmes", len(programmes)).
		Msg("served XMLTV guide")

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(data)
}
