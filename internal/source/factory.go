// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package source

import (
	"fmt"
	"time"

	"github.com/ManuGH/tvguide/internal/cache"
	"github.com/ManuGH/tvguide/internal/config"
	"github.com/ManuGH/tvguide/internal/fetch"
	"github.com/ManuGH/tvguide/internal/source/drdk"
	"github.com/ManuGH/tvguide/internal/source/tvtid"
	"github.com/ManuGH/tvguide/internal/source/xmltv"
	"github.com/ManuGH/tvguide/internal/source/youseetv"
)

// Deps carries collaborators that tests may replace.
type Deps struct {
	// Fetcher is used for every provider request. When nil one is built from cfg.HTTP.
	Fetcher fetch.Fetcher
	Now     func() time.Time
}

// New builds the Source selected by cfg.Provider.
func New(cfg config.AppConfig, deps Deps) (*Source, error) {
	p, err := NewProvider(cfg, deps)
	if err != nil {
		return nil, err
	}
	return NewSource(p, WithClock(deps.Now)), nil
}

// NewProvider builds the provider variant selected by cfg.Provider.
func NewProvider(cfg config.AppConfig, deps Deps) (Provider, error) {
	loc, err := cfg.TimeLocation()
	if err != nil {
		return nil, err
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	f := deps.Fetcher
	if f == nil {
		c := fetch.New(fetch.Options{
			Timeout:           cfg.HTTP.Timeout,
			UserAgent:         cfg.HTTP.UserAgent,
			RequestsPerSecond: cfg.HTTP.RateLimit,
		})
		if cfg.Provider == config.ProviderYouSeeTV && cfg.YouSeeTV.APIKey != "" {
			c = c.WithHeaders(map[string]string{youseetv.APIKeyHeader: cfg.YouSeeTV.APIKey})
		}
		f = c
	}
	store := cache.NewDiskCache(cfg.CacheDir, f, cache.WithClock(now))

	switch cfg.Provider {
	case drdk.Key:
		return drdk.New(store, drdk.Options{BaseURL: cfg.DrDk.BaseURL, Location: loc, Now: now}), nil
	case youseetv.Key:
		return youseetv.New(store, youseetv.Options{
			BaseURL:  cfg.YouSeeTV.BaseURL,
			Category: cfg.YouSeeTV.Category,
			Location: loc,
		}), nil
	case tvtid.Key:
		logos := cache.NewLogoCache(cfg.CacheDir, f)
		return tvtid.New(store, logos, tvtid.Options{BaseURL: cfg.TvTid.BaseURL, Location: loc, Now: now}), nil
	case xmltv.Key:
		return xmltv.New(f, xmltv.Options{File: cfg.XMLTV.File, Location: loc, Now: now}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
