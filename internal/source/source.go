// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package source turns a guide provider into the canonical channel and
// programme queries, memoizing every successful provider fetch for the
// lifetime of the process.
package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ManuGH/tvguide/internal/epg"
	xglog "github.com/ManuGH/tvguide/internal/log"
	"github.com/ManuGH/tvguide/internal/metrics"
	"github.com/ManuGH/tvguide/internal/model"
	"github.com/ManuGH/tvguide/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Provider is one guide backend. Implementations fetch on every call; the
// Source in front of them is responsible for memoization.
type Provider interface {
	// Key is the provider's configuration key, also used as cache-name prefix.
	Key() string
	// HasChannelIcons reports whether channel logos are meaningful local images.
	HasChannelIcons() bool
	FetchChannelList(ctx context.Context) ([]model.Channel, error)
	FetchProgramList(ctx context.Context, ch model.Channel) ([]model.Program, error)
}

const (
	kindChannels = "channels"
	kindPrograms = "programs"

	channelListKey = ""

	// maxNameDistance bounds fuzzy channel-name matches in FindChannel.
	maxNameDistance = 2
)

// Source serves channel and programme queries for one provider.
type Source struct {
	provider Provider
	now      func() time.Time
	logger   zerolog.Logger
	tracer   trace.Tracer

	channels *memo[[]model.Channel]
	programs *memo[[]model.Program]
}

// Option customises a Source.
type Option func(*Source)

// WithClock overrides the clock used by CurrentProgram.
func WithClock(now func() time.Time) Option {
	return func(s *Source) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger overrides the source logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Source) { s.logger = l }
}

// NewSource wraps p.
func NewSource(p Provider, opts ...Option) *Source {
	s := &Source{
		provider: p,
		now:      time.Now,
		logger:   xglog.WithProvider("source", p.Key()),
		tracer:   telemetry.Tracer("tvguide/source"),
		channels: newMemo[[]model.Channel](),
		programs: newMemo[[]model.Program](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the provider key.
func (s *Source) Key() string { return s.provider.Key() }

// HasChannelIcons reports the provider's static icon capability.
func (s *Source) HasChannelIcons() bool { return s.provider.HasChannelIcons() }

// ChannelList returns the provider's channels, fetching them on first use.
func (s *Source) ChannelList(ctx context.Context) ([]model.Channel, error) {
	return s.channels.Load(ctx, channelListKey, func(ctx context.Context) ([]model.Channel, error) {
		return observe(ctx, s, kindChannels, "", s.provider.FetchChannelList)
	})
}

// ProgramList returns the programmes of ch, fetching them once per channel ID.
func (s *Source) ProgramList(ctx context.Context, ch model.Channel) ([]model.Program, error) {
	return s.programs.Load(ctx, ch.ID, func(ctx context.Context) ([]model.Program, error) {
		return observe(ctx, s, kindPrograms, ch.ID, func(ctx context.Context) ([]model.Program, error) {
			return s.provider.FetchProgramList(ctx, ch)
		})
	})
}

// CurrentProgram returns the first programme of ch airing now. ok is false
// when nothing is airing; boundaries are exclusive.
func (s *Source) CurrentProgram(ctx context.Context, ch model.Channel) (p model.Program, ok bool, err error) {
	programs, err := s.ProgramList(ctx, ch)
	if err != nil {
		return model.Program{}, false, err
	}
	now := s.now()
	for _, p := range programs {
		if p.AiringAt(now) {
			return p, true, nil
		}
	}
	return model.Program{}, false, nil
}

// ChannelByID finds a channel in the channel list.
func (s *Source) ChannelByID(ctx context.Context, id string) (model.Channel, error) {
	channels, err := s.ChannelList(ctx)
	if err != nil {
		return model.Channel{}, err
	}
	for _, ch := range channels {
		if ch.ID == id {
			return ch, nil
		}
	}
	return model.Channel{}, fmt.Errorf("%w: %s", ErrChannelNotFound, id)
}

// FindChannel resolves query as a channel ID first, then as a display name,
// allowing small typos in the name.
func (s *Source) FindChannel(ctx context.Context, query string) (model.Channel, error) {
	channels, err := s.ChannelList(ctx)
	if err != nil {
		return model.Channel{}, err
	}

	byID := make(map[string]model.Channel, len(channels))
	nameToID := make(map[string]string, len(channels))
	for _, ch := range channels {
		if ch.ID == query {
			return ch, nil
		}
		byID[ch.ID] = ch
		key := epg.NameKey(ch.Title)
		if _, dup := nameToID[key]; !dup {
			nameToID[key] = ch.ID
		}
	}

	if id, ok := epg.FindBest(query, nameToID, maxNameDistance); ok {
		s.logger.Debug().
			Str(xglog.FieldEvent, "channel.fuzzy_match").
			Str("query", query).
			Str(xglog.FieldChannelID, id).
			Msg("resolved channel by name")
		return byID[id], nil
	}
	return model.Channel{}, fmt.Errorf("%w: %s", ErrChannelNotFound, strings.TrimSpace(query))
}

// observe wraps one provider fetch with a span, metrics and logging.
func observe[V any](ctx context.Context, s *Source, kind, channelID string, fetch func(context.Context) ([]V, error)) ([]V, error) {
	key := s.provider.Key()
	ctx, span := s.tracer.Start(ctx, "source.fetch_"+kind,
		trace.WithAttributes(telemetry.SourceAttributes(key, kind, channelID)...))
	defer span.End()

	start := time.Now()
	items, err := fetch(ctx)
	elapsed := time.Since(start)
	metrics.ObserveSourceFetch(key, kind, len(items), err, elapsed)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(telemetry.ErrorAttributes(errorType(err))...)
		s.logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "source.fetch_failed").
			Str(xglog.FieldKind, kind).
			Str(xglog.FieldChannelID, channelID).
			Dur("duration", elapsed).
			Msg("provider fetch failed")
		return nil, err
	}

	span.SetAttributes(telemetry.ItemsAttribute(len(items)))
	s.logger.Debug().
		Str(xglog.FieldEvent, "source.fetched").
		Str(xglog.FieldKind, kind).
		Str(xglog.FieldChannelID, channelID).
		Int(xglog.FieldCount, len(items)).
		Dur("duration", elapsed).
		Msg("provider fetch completed")
	return items, nil
}
