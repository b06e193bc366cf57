// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"net/url"

	"github.com/ManuGH/tvguide/internal/model"
	"github.com/go-chi/chi/v5"
)

type channelsResponse struct {
	Provider        string          `json:"provider"`
	HasChannelIcons bool            `json:"hasChannelIcons"`
	Channels        []model.Channel `json:"channels"`
}

type programsResponse struct {
	Channel  model.Channel   `json:"channel"`
	Programs []model.Program `json:"programs"`
}

type nowResponse struct {
	Channel model.Channel `json:"channel"`
	Program model.Program `json:"program"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"provider": s.guide.Key(),
		"version":  s.cfg.Version,
	})
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := s.guide.ChannelList(r.Context())
	if err != nil {
		writeSourceError(w, r, err)
		return
	}
	if channels == nil {
		channels = []model.Channel{}
	}
	writeJSON(w, http.StatusOK, channelsResponse{
		Provider:        s.guide.Key(),
		HasChannelIcons: s.guide.HasChannelIcons(),
		Channels:        channels,
	})
}

// channel resolves the {id} route parameter. IDs may contain slashes, so
// clients send them path-escaped and chi hands back the raw segment.
func (s *Server) channel(w http.ResponseWriter, r *http.Request) (model.Channel, bool) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil || id == "" {
		writeErrorCode(w, r, http.StatusBadRequest, codeBadRequest, "invalid channel id")
		return model.Channel{}, false
	}
	ch, err := s.guide.ChannelByID(r.Context(), id)
	if err != nil {
		writeSourceError(w, r, err)
		return model.Channel{}, false
	}
	return ch, true
}

func (s *Server) handleChannel(w http.ResponseWriter, r *http.Request) {
	ch, ok := s.channel(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) handlePrograms(w http.ResponseWriter, r *http.Request) {
	ch, ok := s.channel(w, r)
	if !ok {
		return
	}
	programs, err := s.guide.ProgramList(r.Context(), ch)
	if err != nil {
		writeSourceError(w, r, err)
		return
	}
	if programs == nil {
		programs = []model.Program{}
	}
	writeJSON(w, http.StatusOK, programsResponse{Channel: ch, Programs: programs})
}

func (s *Server) handleNow(w http.ResponseWriter, r *http.Request) {
	ch, ok := s.channel(w, r)
	if !ok {
		return
	}
	p, airing, err := s.guide.CurrentProgram(r.Context(), ch)
	if err != nil {
		writeSourceError(w, r, err)
		return
	}
	if !airing {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, nowResponse{Channel: ch, Program: p})
}
