// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package cache

import (
	"context"
	"os"
	"sync"

	"github.com/ManuGH/tvguide/internal/fetch"
	xglog "github.com/ManuGH/tvguide/internal/log"
	"github.com/ManuGH/tvguide/internal/metrics"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
)

// LogoCache is a permanent, write-once image store. Existence of the file is
// the only hit criterion; entries never expire. Names whose download failed
// are remembered for the lifetime of the cache and not retried.
type LogoCache struct {
	dir     string
	fetcher fetch.Fetcher
	logger  zerolog.Logger

	negMu sync.Mutex
	neg   map[string]struct{}
}

// NewLogoCache creates a logo cache in dir. The directory is created lazily.
func NewLogoCache(dir string, fetcher fetch.Fetcher, opts ...Option) *LogoCache {
	o := buildOptions(opts)
	logger := xglog.WithComponent("logocache")
	if o.logger != nil {
		logger = *o.logger
	}
	return &LogoCache{
		dir:     dir,
		fetcher: fetcher,
		logger:  logger,
		neg:     make(map[string]struct{}),
	}
}

// Path returns the file backing name.
func (c *LogoCache) Path(name string) string { return entryPath(c.dir, name) }

// FetchLogo returns the local path of the logo stored under name, downloading
// it from url on first use. Any failure yields ok == false; logos are best effort.
func (c *LogoCache) FetchLogo(ctx context.Context, url, name string) (path string, ok bool) {
	path = c.Path(name)
	if exists(path) {
		metrics.IncLogoCache(metrics.LogoHitDisk)
		return path, true
	}

	if c.isNegCached(name) {
		metrics.IncLogoCache(metrics.LogoUnavailable)
		return "", false
	}

	logger := xglog.WithContext(ctx, c.logger).With().
		Str(xglog.FieldCacheName, name).
		Str(xglog.FieldURL, url).
		Logger()

	data, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		metrics.IncLogoCache(metrics.LogoUnavailable)
		evt := logger.Warn()
		if fetch.IsHTTPError(err) {
			evt = logger.Debug()
		}
		evt.Err(err).Msg("logo unavailable")
		c.setNeg(name)
		return "", false
	}

	if err := os.MkdirAll(c.dir, dirPerm); err != nil {
		metrics.IncLogoCache(metrics.LogoWriteError)
		logger.Warn().Err(err).Msg("create logo cache dir")
		return "", false
	}
	if err := renameio.WriteFile(path, data, filePerm); err != nil {
		metrics.IncLogoCache(metrics.LogoWriteError)
		logger.Warn().Err(err).Msg("write logo")
		return "", false
	}

	metrics.IncLogoCache(metrics.LogoDownloaded)
	logger.Debug().Int(xglog.FieldBytes, len(data)).Msg("logo cached")
	return path, true
}

func (c *LogoCache) isNegCached(name string) bool {
	c.negMu.Lock()
	defer c.negMu.Unlock()
	_, ok := c.neg[name]
	return ok
}

func (c *LogoCache) setNeg(name string) {
	c.negMu.Lock()
	c.neg[name] = struct{}{}
	c.negMu.Unlock()
}
