// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package youseetv reads the YouSee TV guide API.
package youseetv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ManuGH/tvguide/internal/cache"
	xglog "github.com/ManuGH/tvguide/internal/log"
	"github.com/ManuGH/tvguide/internal/model"
	"github.com/ManuGH/tvguide/internal/timeutil"
	"github.com/rs/zerolog"
)

// Key identifies the provider in configuration and cache names.
const Key = "youseetv"

// DefaultBaseURL is the public API endpoint.
const DefaultBaseURL = "http://api.yousee.tv/rest"

// APIKeyHeader carries the optional API key on every request.
const APIKeyHeader = "X-API-Key"

// ErrCategoryNotFound is returned when the configured channel category is not offered.
var ErrCategoryNotFound = errors.New("youseetv: channel category not found")

// Options configures a Provider.
type Options struct {
	BaseURL  string
	Category string
	Location *time.Location
}

// Provider implements source.Provider for the YouSee API.
type Provider struct {
	baseURL  string
	category string
	store    cache.Store
	loc      *time.Location
	logger   zerolog.Logger
}

// New creates a Provider reading through store. Requests carry the API key
// when the store's fetcher was configured with it.
func New(store cache.Store, opts Options) *Provider {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Provider{
		baseURL:  base,
		category: opts.Category,
		store:    store,
		loc:      timeutil.LocationOrLocal(opts.Location),
		logger:   xglog.WithProvider("provider", Key),
	}
}

// Key implements source.Provider.
func (p *Provider) Key() string { return Key }

// HasChannelIcons implements source.Provider. Logos are remote URLs, not local images.
func (p *Provider) HasChannelIcons() bool { return false }

// opaqueID accepts IDs sent either as JSON strings or numbers.
type opaqueID string

func (id *opaqueID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = opaqueID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("channel id: %w", err)
	}
	*id = opaqueID(n.String())
	return nil
}

type category struct {
	Name     string `json:"name"`
	Channels []struct {
		ID   opaqueID `json:"id"`
		Name string   `json:"name"`
		Logo string   `json:"logo"`
	} `json:"channels"`
}

type programsResponse struct {
	Programs []struct {
		Title       string                `json:"title"`
		Begin       timeutil.EpochSeconds `json:"begin"`
		End         timeutil.EpochSeconds `json:"end"`
		Description *string               `json:"description"`
	} `json:"programs"`
}

// FetchChannelList implements source.Provider.
func (p *Provider) FetchChannelList(ctx context.Context) ([]model.Channel, error) {
	body, err := p.store.FetchCached(ctx, p.baseURL+"/tvguide/channels", Key+"-channels.json")
	if err != nil {
		return nil, fmt.Errorf("youseetv: channel list: %w", err)
	}
	var categories []category
	if err := json.Unmarshal(body, &categories); err != nil {
		return nil, fmt.Errorf("youseetv: decode channel list: %w", err)
	}

	for _, c := range categories {
		if !strings.EqualFold(c.Name, p.category) {
			continue
		}
		channels := make([]model.Channel, 0, len(c.Channels))
		for _, ch := range c.Channels {
			channels = append(channels, model.Channel{ID: string(ch.ID), Title: ch.Name, Logo: ch.Logo})
		}
		return channels, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, p.category)
}

// FetchProgramList implements source.Provider.
func (p *Provider) FetchProgramList(ctx context.Context, ch model.Channel) ([]model.Program, error) {
	u := p.baseURL + "/tvguide/programs?channel_id=" + url.QueryEscape(ch.ID)
	body, err := p.store.FetchCached(ctx, u, Key+"-"+cache.SanitizeName(ch.ID))
	if err != nil {
		return nil, fmt.Errorf("youseetv: programmes for %s: %w", ch.ID, err)
	}
	var resp programsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("youseetv: decode programmes for %s: %w", ch.ID, err)
	}

	programs := make([]model.Program, 0, len(resp.Programs))
	for _, r := range resp.Programs {
		var desc string
		if r.Description != nil {
			desc = *r.Description
		}
		prog, err := model.NewProgram(ch, r.Title, r.Begin.In(p.loc), r.End.In(p.loc), desc)
		if err != nil {
			p.logger.Warn().Err(err).Str(xglog.FieldChannelID, ch.ID).Msg("skipping programme with empty interval")
			continue
		}
		programs = append(programs, prog)
	}
	return programs, nil
}
