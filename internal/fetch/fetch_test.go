// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchHTTP(t *testing.T) {
	var gotUA, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotKey = r.Header.Get("X-API-Key")
		_, _ = w.Write([]byte(`{"result":[]}`))
	}))
	defer srv.Close()

	c := New(Options{Client: srv.Client()}).WithHeaders(map[string]string{"X-API-Key": "secret"})
	body, err := c.Fetch(context.Background(), srv.URL+"/getChannels?type=tv")
	require.NoError(t, err)
	assert.Equal(t, `{"result":[]}`, string(body))
	assert.Equal(t, "tvguide", gotUA)
	assert.Equal(t, "secret", gotKey)
}

func TestClient_FetchHTTP_StatusMapping(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusGone, ErrNotFound},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusUnauthorized, ErrForbidden},
		{http.StatusBadGateway, ErrUpstream},
		{http.StatusTeapot, ErrBadResponse},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := New(Options{Client: srv.Client()}).Fetch(context.Background(), srv.URL)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.True(t, IsHTTPError(err))

			var fe *FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.status, fe.Status)
		})
	}
}

func TestClient_FetchHTTP_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := New(Options{}).Fetch(context.Background(), addr)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, IsHTTPError(err))
}

func TestClient_FetchHTTP_SizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	_, err := New(Options{Client: srv.Client(), MaxBytes: 1024}).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestClient_FetchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.xml")
	require.NoError(t, os.WriteFile(path, []byte("<tv/>"), 0o600))

	c := New(Options{})

	body, err := c.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "<tv/>", string(body))

	body, err = c.Fetch(context.Background(), "file://"+filepath.ToSlash(path))
	require.NoError(t, err)
	assert.Equal(t, "<tv/>", string(body))

	_, err = c.Fetch(context.Background(), filepath.Join(dir, "missing.xml"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, IsHTTPError(err))
}

func TestClient_UnsupportedScheme(t *testing.T) {
	_, err := New(Options{}).Fetch(context.Background(), "ftp://example.com/guide.xml")
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(Options{Client: srv.Client(), RequestsPerSecond: 0.001})
	_, err := c.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, ErrUnavailable)
}
