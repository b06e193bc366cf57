// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package cache provides the two on-disk blob caches used by guide providers:
// a TTL-governed data cache and a permanent, best-effort logo cache.
package cache

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTTL is how long a cached data blob stays fresh.
const DefaultTTL = 10 * time.Minute

// Store returns the bytes behind url, served from the entry called name while
// it is fresh. DiskCache implements it.
type Store interface {
	FetchCached(ctx context.Context, url, name string) ([]byte, error)
}

// Logos resolves a logo URL to a local file. LogoCache implements it.
type Logos interface {
	FetchLogo(ctx context.Context, url, name string) (path string, ok bool)
}

var (
	_ Store = (*DiskCache)(nil)
	_ Logos = (*LogoCache)(nil)
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// Stats holds disk cache counters.
type Stats struct {
	Hits      int64 // lookups served from a fresh file
	Refreshes int64 // lookups that fetched and rewrote the file
	Errors    int64 // lookups that failed (fetch, write or read)
}

type options struct {
	ttl    time.Duration
	now    func() time.Time
	logger *zerolog.Logger
}

// Option customises a cache.
type Option func(*options)

// WithTTL overrides DefaultTTL. Ignored by the logo cache.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithClock overrides time.Now for freshness decisions.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

func buildOptions(opts []Option) options {
	o := options{ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

var nameReplacer = strings.NewReplacer(
	"%", "%25",
	"/", "%2f",
	"\\", "%5c",
	"+", "%2b",
	"\x00", "%00",
)

// SanitizeName makes a provider-supplied cache name safe to use as a single
// file name inside the cache directory. Distinct names always map to distinct
// file names.
func SanitizeName(name string) string {
	switch name {
	case "":
		return "%"
	case ".":
		return "%2e"
	case "..":
		return "%2e%2e"
	}
	return nameReplacer.Replace(name)
}

// safeName reports whether name can be used as a file name as-is.
func safeName(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}

// entryPath resolves name inside dir. Names from SanitizeName are used
// verbatim; anything else is sanitized first.
func entryPath(dir, name string) string {
	if !safeName(name) {
		name = SanitizeName(name)
	}
	return filepath.Join(dir, name)
}
