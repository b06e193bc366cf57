// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ManuGH/tvguide/internal/api"
	"github.com/ManuGH/tvguide/internal/epg"
	xglog "github.com/ManuGH/tvguide/internal/log"
	"github.com/ManuGH/tvguide/internal/model"
	"github.com/ManuGH/tvguide/internal/source"
)

const clockLayout = "2006-01-02 15:04"

func runChannels(ctx context.Context, e env, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	channels, err := e.src.ChannelList(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tLOGO")
	for _, ch := range channels {
		logo := ch.Logo
		if logo == "" {
			logo = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ch.ID, ch.Title, logo)
	}
	return tw.Flush()
}

// channelArg resolves the remaining arguments as a channel ID or name.
func channelArg(ctx context.Context, e env, args []string) (model.Channel, error) {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return model.Channel{}, fmt.Errorf("%w: missing channel", errUsage)
	}
	return e.src.FindChannel(ctx, query)
}

func runPrograms(ctx context.Context, e env, args []string) error {
	ch, err := channelArg(ctx, e, args)
	if err != nil {
		return err
	}
	programs, err := e.src.ProgramList(ctx, ch)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "%s (%s)\n", ch.Title, ch.ID)
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	for _, p := range programs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Start.Format(clockLayout), p.End.Format("15:04"), p.Title)
	}
	return tw.Flush()
}

func runNow(ctx context.Context, e env, args []string) error {
	ch, err := channelArg(ctx, e, args)
	if err != nil {
		return err
	}
	p, ok, err := e.src.CurrentProgram(ctx, ch)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(e.stdout, "%s: nothing airing\n", ch.Title)
		return nil
	}
	printProgram(e.stdout, p)
	return nil
}

func printProgram(w io.Writer, p model.Program) {
	fmt.Fprintf(w, "%s: %s\n", p.Channel.Title, p.Title)
	fmt.Fprintf(w, "%s - %s (%d min)\n", p.Start.Format(clockLayout), p.End.Format("15:04"), int(p.Duration().Minutes()))
	fmt.Fprintln(w, p.Description)
}

func runExport(ctx context.Context, e env, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	out := fs.String("o", "", "output XMLTV file")
	concurrency := fs.Int("concurrency", source.DefaultGuideConcurrency, "parallel programme fetches")
	if err := fs.Parse(args); err != nil || strings.TrimSpace(*out) == "" || fs.NArg() != 0 {
		return errUsage
	}

	channels, programmes, err := e.src.Guide(ctx, *concurrency)
	if err != nil {
		return err
	}
	if err := epg.WriteFile(ctx, *out, epg.FromModel(channels, programmes)); err != nil {
		return err
	}

	logger := xglog.WithComponent("cli")
	logger.Info().
		Str(xglog.FieldEvent, "export.written").
		Str(xglog.FieldPath, *out).
		Int("channels", len(channels)).
		Int("programmes", len(programmes)).
		Msg("XMLTV guide written")
	fmt.Fprintf(e.stdout, "wrote %d channels and %d programmes to %s\n", len(channels), len(programmes), *out)
	return nil
}

func runServe(ctx context.Context, e env, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	srv := api.New(api.Config{
		ListenAddr: e.cfg.API.ListenAddr,
		RateLimit:  e.cfg.API.RateLimit,
		Version:    e.cfg.Version,
	}, e.src)
	return srv.ListenAndServe(ctx)
}
