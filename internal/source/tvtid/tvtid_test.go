// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package tvtid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ManuGH/tvguide/internal/cache"
	"github.com/ManuGH/tvguide/internal/fetch"
	"github.com/ManuGH/tvguide/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedJSON = `{"channels":[
  {"id":1,"name":"TV 2","logo":"/images/logos/1.png","program":[
    {"title":"Nyhederne","start_timestamp":1295120600,"end_timestamp":1295122400,"short_description":"Dagens nyheder"},
    {"title":"Vejret","start_timestamp":1295122400,"end_timestamp":1295122700,"short_description":null}
  ]},
  {"id":2,"name":"TV 2 Zulu","logo":"/images/logos/missing.png","program":[]},
  {"id":3,"name":"TV 2 News","logo":"","program":[]}
]}`

var cph = time.FixedZone("CET", 3600)

// 2011-01-15 20:43:20 CET, floored to 20:00 CET = 1295118000.
var now = func() time.Time { return time.Unix(1295120600, 0).In(cph) }

type server struct {
	srv       *httptest.Server
	feedHits  atomic.Int32
	logoHits  atomic.Int32
	lastPath  atomic.Value
	unhandled atomic.Int32
}

func newServer(t *testing.T) *server {
	t.Helper()
	s := &server{}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/js/fetch.js.php/from-1295118000.js":
			s.feedHits.Add(1)
			_, _ = w.Write([]byte(feedJSON))
		case "/images/logos/1.png":
			s.logoHits.Add(1)
			_, _ = w.Write([]byte("\xff\xd8\xff"))
		default:
			s.lastPath.Store(r.URL.Path)
			s.unhandled.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func newProvider(t *testing.T, s *server, dir string) *Provider {
	t.Helper()
	f := fetch.New(fetch.Options{Client: s.srv.Client()})
	return New(
		cache.NewDiskCache(dir, f),
		cache.NewLogoCache(dir, f),
		Options{BaseURL: s.srv.URL, Location: cph, Now: now},
	)
}

func TestFeedURL_FloorsToHour(t *testing.T) {
	p := New(nil, nil, Options{Location: cph, Now: now})
	assert.Equal(t, DefaultBaseURL+"/js/fetch.js.php/from-1295118000.js", p.feedURL())
}

func TestFeedURL_HalfHourOffsetZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+30*60)
	p := New(nil, nil, Options{Location: ist, Now: func() time.Time { return time.Unix(1295120600, 0) }})
	assert.Equal(t, DefaultBaseURL+"/js/fetch.js.php/from-1295118000.js", p.feedURL())

	dir := t.TempDir()
	s := newServer(t)
	f := fetch.New(fetch.Options{Client: s.srv.Client()})
	p = New(cache.NewDiskCache(dir, f), cache.NewLogoCache(dir, f), Options{BaseURL: s.srv.URL, Location: ist, Now: now})
	_, err := p.FetchChannelList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), s.feedHits.Load())
	assert.Zero(t, s.unhandled.Load())
}

func TestFetchChannelList(t *testing.T) {
	s := newServer(t)
	dir := t.TempDir()
	p := newProvider(t, s, dir)

	got, err := p.FetchChannelList(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, model.Channel{ID: "1", Title: "TV 2", Logo: filepath.Join(dir, "tvtiddk-1.jpg")}, got[0])
	assert.FileExists(t, got[0].Logo)
	assert.False(t, got[1].HasLogo(), "unavailable logos are absent, not errors")
	assert.False(t, got[2].HasLogo())
	assert.Equal(t, "/images/logos/missing.png", s.lastPath.Load())

	_, err = p.FetchChannelList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), s.feedHits.Load(), "feed is served from the disk cache within the TTL")
	assert.Equal(t, int32(1), s.logoHits.Load(), "logos are fetched once")
	assert.Equal(t, int32(1), s.unhandled.Load(), "failed logos are not retried")
}

func TestFetchProgramList(t *testing.T) {
	s := newServer(t)
	p := newProvider(t, s, t.TempDir())
	ch := model.Channel{ID: "1", Title: "TV 2"}

	got, err := p.FetchProgramList(context.Background(), ch)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "2011-01-15 20:43:20", got[0].Start.Format("2006-01-02 15:04:05"))
	assert.Equal(t, "2011-01-15 21:13:20", got[0].End.Format("2006-01-02 15:04:05"))
	assert.Equal(t, "Dagens nyheder", got[0].Description)
	assert.Equal(t, model.NoDescription, got[1].Description)
}

func TestFetchProgramList_EmptySchedule(t *testing.T) {
	s := newServer(t)
	p := newProvider(t, s, t.TempDir())

	got, err := p.FetchProgramList(context.Background(), model.Channel{ID: "2"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchProgramList_ChannelNotFound(t *testing.T) {
	s := newServer(t)
	p := newProvider(t, s, t.TempDir())

	_, err := p.FetchProgramList(context.Background(), model.Channel{ID: "42"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrChannelNotFound)
}

func TestProviderCapabilities(t *testing.T) {
	p := New(nil, nil, Options{})
	assert.Equal(t, Key, p.Key())
	assert.True(t, p.HasChannelIcons())
}
