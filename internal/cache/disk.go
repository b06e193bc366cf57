// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package cache

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/ManuGH/tvguide/internal/fetch"
	xglog "github.com/ManuGH/tvguide/internal/log"
	"github.com/ManuGH/tvguide/internal/metrics"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
)

// DiskCache is a keyed blob store backed by one directory. An entry is fresh
// while now - TTL < its file modification time; a missing entry is always stale.
// There is no locking: concurrent processes sharing a directory may race.
type DiskCache struct {
	dir     string
	ttl     time.Duration
	now     func() time.Time
	fetcher fetch.Fetcher
	logger  zerolog.Logger

	hits      atomic.Int64
	refreshes atomic.Int64
	errors    atomic.Int64
}

// NewDiskCache creates a data cache in dir. The directory is created lazily.
func NewDiskCache(dir string, fetcher fetch.Fetcher, opts ...Option) *DiskCache {
	o := buildOptions(opts)
	logger := xglog.WithComponent("diskcache")
	if o.logger != nil {
		logger = *o.logger
	}
	return &DiskCache{
		dir:     dir,
		ttl:     o.ttl,
		now:     o.now,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Path returns the file backing name.
func (c *DiskCache) Path(name string) string { return entryPath(c.dir, name) }

// CachedOn returns the last write time of name, or the zero time if absent.
func (c *DiskCache) CachedOn(name string) time.Time {
	info, err := os.Stat(c.Path(name))
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func isStale(now time.Time, ttl time.Duration, cachedOn time.Time) bool {
	return !now.Add(-ttl).Before(cachedOn)
}

// FetchCached returns the content for url, served from the file for name while
// it is fresh. A stale entry is refetched and overwritten; fetch failures are
// returned as-is and never fall back to the stale bytes.
func (c *DiskCache) FetchCached(ctx context.Context, url, name string) ([]byte, error) {
	path := c.Path(name)
	cachedOn := c.CachedOn(name)
	logger := xglog.WithContext(ctx, c.logger).With().
		Str(xglog.FieldCacheName, name).
		Logger()

	if !isStale(c.now(), c.ttl, cachedOn) {
		data, err := os.ReadFile(path) // #nosec G304 -- path confined by SanitizeName
		if err != nil {
			c.fail()
			return nil, fmt.Errorf("read cache entry %s: %w", name, err)
		}
		c.hits.Add(1)
		metrics.IncDiskCache(metrics.CacheHit)
		logger.Debug().
			Time(xglog.FieldCachedOn, cachedOn).
			Int(xglog.FieldBytes, len(data)).
			Msg("cache hit")
		return data, nil
	}

	data, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		c.fail()
		return nil, err
	}

	if err := os.MkdirAll(c.dir, dirPerm); err != nil {
		c.fail()
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if err := renameio.WriteFile(path, data, filePerm); err != nil {
		c.fail()
		return nil, fmt.Errorf("write cache entry %s: %w", name, err)
	}

	c.refreshes.Add(1)
	metrics.IncDiskCache(metrics.CacheRefresh)
	evt := logger.Info()
	if cachedOn.IsZero() {
		evt = evt.Str(xglog.FieldEvent, "cache.created")
	} else {
		evt = evt.Str(xglog.FieldEvent, "cache.refreshed").Dur(xglog.FieldAge, c.now().Sub(cachedOn))
	}
	evt.Str(xglog.FieldURL, url).Int(xglog.FieldBytes, len(data)).Msg("cache entry written")
	return data, nil
}

func (c *DiskCache) fail() {
	c.errors.Add(1)
	metrics.IncDiskCache(metrics.CacheError)
}

// Stats returns the cache counters.
func (c *DiskCache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Refreshes: c.refreshes.Load(),
		Errors:    c.errors.Load(),
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
