// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package source

import (
	"context"
	"fmt"

	"github.com/ManuGH/tvguide/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultGuideConcurrency bounds parallel programme fetches in Guide.
const DefaultGuideConcurrency = 4

// Guide collects the channel list and every channel's programmes. Programmes
// are returned grouped by channel, in channel-list order. The first failing
// channel aborts the collection.
func (s *Source) Guide(ctx context.Context, concurrency int) ([]model.Channel, []model.Program, error) {
	channels, err := s.ChannelList(ctx)
	if err != nil {
		return nil, nil, err
	}
	if concurrency <= 0 {
		concurrency = DefaultGuideConcurrency
	}

	perChannel := make([][]model.Program, len(channels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, ch := range channels {
		i, ch := i, ch
		g.Go(func() error {
			programs, err := s.ProgramList(gctx, ch)
			if err != nil {
				return fmt.Errorf("programmes for %s: %w", ch.ID, err)
			}
			perChannel[i] = programs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var total int
	for _, ps := range perChannel {
		total += len(ps)
	}
	programmes := make([]model.Program, 0, total)
	for _, ps := range perChannel {
		programmes = append(programmes, ps...)
	}
	return channels, programmes, nil
}
