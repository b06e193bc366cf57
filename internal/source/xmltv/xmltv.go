// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package xmltv serves channels and programmes from a local XMLTV file.
package xmltv

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ManuGH/tvguide/internal/epg"
	"github.com/ManuGH/tvguide/internal/fetch"
	xglog "github.com/ManuGH/tvguide/internal/log"
	"github.com/ManuGH/tvguide/internal/model"
	"github.com/ManuGH/tvguide/internal/timeutil"
	"github.com/rs/zerolog"
)

// Key identifies the provider in configuration.
const Key = "xmltv"

// ErrMissingIcon is returned for a channel element without an icon source.
var ErrMissingIcon = errors.New("xmltv: channel has no icon")

// Options configures a Provider.
type Options struct {
	// File is a filesystem path or file:// URL.
	File     string
	Location *time.Location
	Now      func() time.Time
}

// Provider implements source.Provider over an XMLTV document. The parsed
// document is reused until the wall-clock hour changes.
type Provider struct {
	file    string
	fetcher fetch.Fetcher
	loc     *time.Location
	now     func() time.Time
	logger  zerolog.Logger

	mu      sync.Mutex
	doc     *epg.TV
	docHour time.Time
}

// New creates a Provider reading opts.File through fetcher.
func New(fetcher fetch.Fetcher, opts Options) *Provider {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Provider{
		file:    opts.File,
		fetcher: fetcher,
		loc:     timeutil.LocationOrLocal(opts.Location),
		now:     now,
		logger:  xglog.WithProvider("provider", Key),
	}
}

// Key implements source.Provider.
func (p *Provider) Key() string { return Key }

// HasChannelIcons implements source.Provider.
func (p *Provider) HasChannelIcons() bool { return true }

func (p *Provider) document(ctx context.Context) (*epg.TV, error) {
	hour := timeutil.FloorHour(p.now().In(p.loc))

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.doc != nil && p.docHour.Equal(hour) {
		return p.doc, nil
	}

	data, err := p.fetcher.Fetch(ctx, p.file)
	if err != nil {
		return nil, fmt.Errorf("xmltv: read %s: %w", p.file, err)
	}
	doc, err := epg.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("xmltv: %s: %w", p.file, err)
	}
	p.doc, p.docHour = doc, hour
	p.logger.Debug().
		Str(xglog.FieldPath, p.file).
		Int("channels", len(doc.Channels)).
		Int("programmes", len(doc.Programs)).
		Msg("xmltv document loaded")
	return doc, nil
}

// FetchChannelList implements source.Provider.
func (p *Provider) FetchChannelList(ctx context.Context) ([]model.Channel, error) {
	doc, err := p.document(ctx)
	if err != nil {
		return nil, err
	}

	channels := make([]model.Channel, 0, len(doc.Channels))
	for _, c := range doc.Channels {
		if c.Icon == nil || c.Icon.Src == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingIcon, c.ID)
		}
		channels = append(channels, model.Channel{
			ID:    c.ID,
			Title: epg.CleanText(c.FirstDisplayName()),
			Logo:  c.Icon.Src,
		})
	}
	return channels, nil
}

// FetchProgramList implements source.Provider. Every programme element is
// scanned and kept when its channel attribute equals ch.ID.
func (p *Provider) FetchProgramList(ctx context.Context, ch model.Channel) ([]model.Program, error) {
	doc, err := p.document(ctx)
	if err != nil {
		return nil, err
	}

	var programs []model.Program
	for _, r := range doc.Programs {
		if r.Channel != ch.ID {
			continue
		}
		start, err := epg.ParseTime(r.Start, p.loc)
		if err != nil {
			return nil, fmt.Errorf("xmltv: %s start: %w", ch.ID, err)
		}
		end, err := epg.ParseTime(r.Stop, p.loc)
		if err != nil {
			return nil, fmt.Errorf("xmltv: %s stop: %w", ch.ID, err)
		}
		prog, err := model.NewProgram(ch, epg.CleanText(r.Title()), start, end, r.Desc())
		if err != nil {
			p.logger.Warn().Err(err).Str(xglog.FieldChannelID, ch.ID).Msg("skipping programme with empty interval")
			continue
		}
		programs = append(programs, prog)
	}
	return programs, nil
}
