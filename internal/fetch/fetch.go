// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package fetch is the byte-fetching primitive underneath the guide caches:
// it turns a URL (http, https, file, or a bare path) into its raw content.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	xglog "github.com/ManuGH/tvguide/internal/log"
	"github.com/ManuGH/tvguide/internal/platform/httpx"
	"golang.org/x/time/rate"
)

// DefaultMaxBytes caps a single fetched payload.
const DefaultMaxBytes = 64 << 20

// Fetcher returns the raw content behind rawURL. Fetches block until complete.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Options configures the default Fetcher.
type Options struct {
	Timeout   time.Duration
	Headers   map[string]string
	UserAgent string
	// RequestsPerSecond throttles outbound HTTP requests; 0 disables throttling.
	RequestsPerSecond float64
	MaxBytes          int64
	// Client overrides the HTTP client (tests); Timeout is ignored when set.
	Client *http.Client
}

// Client fetches http(s) URLs over HTTP and file URLs or plain paths from disk.
type Client struct {
	http      *http.Client
	headers   map[string]string
	userAgent string
	limiter   *rate.Limiter
	maxBytes  int64
}

// New builds a Client from opts.
func New(opts Options) *Client {
	hc := opts.Client
	if hc == nil {
		hc = httpx.NewTracedClient(opts.Timeout)
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "tvguide"
	}
	c := &Client{
		http:      hc,
		headers:   opts.Headers,
		userAgent: ua,
		maxBytes:  maxBytes,
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return c
}

// WithHeaders returns a copy of c that also sends the given headers.
func (c *Client) WithHeaders(headers map[string]string) *Client {
	merged := make(map[string]string, len(c.headers)+len(headers))
	for k, v := range c.headers {
		merged[k] = v
	}
	for k, v := range headers {
		merged[k] = v
	}
	cp := *c
	cp.headers = merged
	return &cp
}

// Fetch implements Fetcher.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// bare path, including Windows drive letters
		return readFile(rawURL, rawURL, c.maxBytes)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return c.fetchHTTP(ctx, rawURL)
	case "file":
		return readFile(rawURL, filepath.FromSlash(u.Path), c.maxBytes)
	default:
		return nil, &FetchError{Sentinel: ErrBadResponse, URL: rawURL, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}
}

func (c *Client) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{Sentinel: ErrUnavailable, URL: rawURL, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{Sentinel: ErrBadResponse, URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	logger := xglog.WithComponentFromContext(ctx, "fetch")
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Sentinel: ErrUnavailable, URL: rawURL, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Debug().Err(cerr).Str(xglog.FieldURL, rawURL).Msg("close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		logger.Debug().
			Str(xglog.FieldURL, rawURL).
			Int(xglog.FieldStatus, resp.StatusCode).
			Msg("upstream returned non-success status")
		return nil, statusError(rawURL, resp.StatusCode)
	}

	body, err := readLimited(resp.Body, c.maxBytes)
	if err != nil {
		return nil, &FetchError{Sentinel: sentinelFor(err), URL: rawURL, Err: err}
	}

	logger.Debug().
		Str(xglog.FieldURL, rawURL).
		Int(xglog.FieldBytes, len(body)).
		Dur("duration", time.Since(start)).
		Msg("fetched")
	return body, nil
}

func readFile(rawURL, path string, maxBytes int64) ([]byte, error) {
	path = filepath.Clean(path)
	// path originates from operator configuration
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		sentinel := ErrUnavailable
		if os.IsNotExist(err) {
			sentinel = ErrNotFound
		}
		return nil, &FetchError{Sentinel: sentinel, URL: rawURL, Err: err}
	}
	defer func() { _ = f.Close() }()

	body, err := readLimited(f, maxBytes)
	if err != nil {
		return nil, &FetchError{Sentinel: sentinelFor(err), URL: rawURL, Err: err}
	}
	return body, nil
}

var errLimit = errors.New("read limit reached")

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > maxBytes {
		return nil, errLimit
	}
	return body, nil
}

func sentinelFor(err error) error {
	if errors.Is(err, errLimit) {
		return ErrTooLarge
	}
	return ErrUnavailable
}
