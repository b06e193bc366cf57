// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package drdk reads the DR programme-overview feed.
package drdk

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ManuGH/tvguide/internal/cache"
	xglog "github.com/ManuGH/tvguide/internal/log"
	"github.com/ManuGH/tvguide/internal/model"
	"github.com/ManuGH/tvguide/internal/timeutil"
	"github.com/rs/zerolog"
)

// Key identifies the provider in configuration and cache names.
const Key = "drdk"

// DefaultBaseURL is the public feed endpoint.
const DefaultBaseURL = "http://www.dr.dk/tjenester/programoversigt/dbservice.ashx"

const (
	dateLayout  = "2006-01-02T15:04:05"
	channelsTag = Key + "-channels.json"
)

// Options configures a Provider.
type Options struct {
	BaseURL  string
	Location *time.Location
	// Now is read once at construction to pick the broadcast date.
	Now func() time.Time
}

// Provider implements source.Provider for the DR feed.
type Provider struct {
	baseURL string
	store   cache.Store
	loc     *time.Location
	date    time.Time
	logger  zerolog.Logger
}

// New creates a Provider reading through store.
func New(store cache.Store, opts Options) *Provider {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := timeutil.LocationOrLocal(opts.Location)
	return &Provider{
		baseURL: base,
		store:   store,
		loc:     loc,
		date:    now().In(loc),
		logger:  xglog.WithProvider("provider", Key),
	}
}

// Key implements source.Provider.
func (p *Provider) Key() string { return Key }

// HasChannelIcons implements source.Provider. The feed carries no logos.
func (p *Provider) HasChannelIcons() bool { return false }

type channelsResponse struct {
	Result []struct {
		SourceURL string `json:"source_url"`
		Name      string `json:"name"`
	} `json:"result"`
}

type scheduleResponse struct {
	Result []struct {
		Title       string `json:"pro_title"`
		Start       string `json:"pg_start"`
		Stop        string `json:"pg_stop"`
		Description string `json:"ppu_description"`
	} `json:"result"`
}

// FetchChannelList implements source.Provider.
func (p *Provider) FetchChannelList(ctx context.Context) ([]model.Channel, error) {
	body, err := p.store.FetchCached(ctx, p.baseURL+"/getChannels?type=tv", channelsTag)
	if err != nil {
		return nil, fmt.Errorf("drdk: channel list: %w", err)
	}
	var resp channelsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("drdk: decode channel list: %w", err)
	}

	channels := make([]model.Channel, 0, len(resp.Result))
	for _, c := range resp.Result {
		channels = append(channels, model.Channel{ID: c.SourceURL, Title: c.Name})
	}
	return channels, nil
}

// FetchProgramList implements source.Provider.
func (p *Provider) FetchProgramList(ctx context.Context, ch model.Channel) ([]model.Program, error) {
	body, err := p.store.FetchCached(ctx, p.scheduleURL(ch.ID), Key+"-"+cache.SanitizeName(ch.ID))
	if err != nil {
		return nil, fmt.Errorf("drdk: schedule for %s: %w", ch.ID, err)
	}
	var resp scheduleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("drdk: decode schedule for %s: %w", ch.ID, err)
	}

	programs := make([]model.Program, 0, len(resp.Result))
	for _, r := range resp.Result {
		start, err := parseDate(r.Start, p.loc)
		if err != nil {
			return nil, fmt.Errorf("drdk: %s: %w", ch.ID, err)
		}
		end, err := parseDate(r.Stop, p.loc)
		if err != nil {
			return nil, fmt.Errorf("drdk: %s: %w", ch.ID, err)
		}
		prog, err := model.NewProgram(ch, r.Title, start, end, r.Description)
		if err != nil {
			p.logger.Warn().Err(err).Str(xglog.FieldChannelID, ch.ID).Msg("skipping programme with empty interval")
			continue
		}
		programs = append(programs, prog)
	}
	return programs, nil
}

func (p *Provider) scheduleURL(channelID string) string {
	return fmt.Sprintf("%s/getSchedule?channel_source_url=%s&broadcastDate=%s",
		p.baseURL, strings.ReplaceAll(channelID, "+", "%2b"), p.date.Format(dateLayout))
}

// parseDate reads the first 19 characters as a wall-clock time in loc,
// discarding any offset suffix.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if len(s) < len(dateLayout) {
		return time.Time{}, fmt.Errorf("malformed date %q", s)
	}
	t, err := time.ParseInLocation(dateLayout, s[:len(dateLayout)], loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed date %q: %w", s, err)
	}
	return t, nil
}
