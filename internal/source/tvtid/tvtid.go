// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package tvtid reads the TV 2 tvtid bundled feed, which carries every
// channel and its schedule in one document.
package tvtid

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/tvguide/internal/cache"
	xglog "github.com/ManuGH/tvguide/internal/log"
	"github.com/ManuGH/tvguide/internal/model"
	"github.com/ManuGH/tvguide/internal/timeutil"
	"github.com/rs/zerolog"
)

// Key identifies the provider in configuration and cache names.
const Key = "tvtiddk"

// DefaultBaseURL is the public feed host. Logo paths in the feed are relative to it.
const DefaultBaseURL = "http://tvtid.tv2.dk"

const dataTag = Key + "-data.json"

// Options configures a Provider.
type Options struct {
	BaseURL  string
	Location *time.Location
	// Now is read once at construction and floored to the hour.
	Now func() time.Time
}

// Provider implements source.Provider for the tvtid feed.
type Provider struct {
	baseURL string
	store   cache.Store
	logos   cache.Logos
	loc     *time.Location
	from    time.Time
	logger  zerolog.Logger
}

// New creates a Provider reading the feed through store and logos through logos.
func New(store cache.Store, logos cache.Logos, opts Options) *Provider {
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
		logos:   logos,
		loc:     loc,
		from:    timeutil.FloorHour(now().In(loc)),
		logger:  xglog.WithProvider("provider", Key),
	}
}

// Key implements source.Provider.
func (p *Provider) Key() string { return Key }

// HasChannelIcons implements source.Provider. Logos are cached locally.
func (p *Provider) HasChannelIcons() bool { return true }

type feed struct {
	Channels []feedChannel `json:"channels"`
}

type feedChannel struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Logo     string `json:"logo"`
	Programs []struct {
		Title       string                `json:"title"`
		Start       timeutil.EpochSeconds `json:"start_timestamp"`
		End         timeutil.EpochSeconds `json:"end_timestamp"`
		Description *string               `json:"short_description"`
	} `json:"program"`
}

// feedURL addresses the feed starting at the construction hour; every call
// within that hour shares one cache entry.
func (p *Provider) feedURL() string {
	return fmt.Sprintf("%s/js/fetch.js.php/from-%d.js", p.baseURL, p.from.Unix())
}

func (p *Provider) load(ctx context.Context) (*feed, error) {
	body, err := p.store.FetchCached(ctx, p.feedURL(), dataTag)
	if err != nil {
		return nil, fmt.Errorf("tvtid: feed: %w", err)
	}
	var f feed
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, fmt.Errorf("tvtid: decode feed: %w", err)
	}
	return &f, nil
}

// FetchChannelList implements source.Provider. Channels whose logo cannot be
// fetched are returned without one.
func (p *Provider) FetchChannelList(ctx context.Context) ([]model.Channel, error) {
	f, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	channels := make([]model.Channel, 0, len(f.Channels))
	for _, c := range f.Channels {
		ch := model.Channel{ID: strconv.Itoa(c.ID), Title: c.Name}
		if c.Logo != "" {
			if path, ok := p.logos.FetchLogo(ctx, p.baseURL+c.Logo, fmt.Sprintf("%s-%d.jpg", Key, c.ID)); ok {
				ch.Logo = path
			}
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// FetchProgramList implements source.Provider. A channel absent from the feed
// yields model.ErrChannelNotFound.
func (p *Provider) FetchProgramList(ctx context.Context, ch model.Channel) ([]model.Program, error) {
	f, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	var found *feedChannel
	for i := range f.Channels {
		if strconv.Itoa(f.Channels[i].ID) == ch.ID {
			found = &f.Channels[i]
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("tvtid: %w: %s", model.ErrChannelNotFound, ch.ID)
	}

	programs := make([]model.Program, 0, len(found.Programs))
	for _, r := range found.Programs {
		var desc string
		if r.Description != nil {
			desc = *r.Description
		}
		prog, err := model.NewProgram(ch, r.Title, r.Start.In(p.loc), r.End.In(p.loc), desc)
		if err != nil {
			p.logger.Warn().Err(err).Str(xglog.FieldChannelID, ch.ID).Msg("skipping programme with empty interval")
			continue
		}
		programs = append(programs, prog)
	}
	return programs, nil
}
