// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ManuGH/tvguide/internal/config"
	xglog "github.com/ManuGH/tvguide/internal/log"
	"github.com/ManuGH/tvguide/internal/source"
	"github.com/ManuGH/tvguide/internal/telemetry"
)

var (
	version   = "v0.1.0"
	commit    = "none"
	buildDate = "unknown"
)

// errUsage marks command-line mistakes; they exit with status 2.
var errUsage = errors.New("usage")

// env is what every command runs against.
type env struct {
	cfg    config.AppConfig
	src    *source.Source
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	usage string
	run   func(ctx context.Context, e env, args []string) error
}

var commands = map[string]command{
	"channels": {"channels", runChannels},
	"programs": {"programs <channel-id|name>", runPrograms},
	"now":      {"now <channel-id|name>", runNow},
	"export":   {"export -o guide.xml [-concurrency n]", runExport},
	"serve":    {"serve", runServe},
}

var commandOrder = []string{"channels", "programs", "now", "export", "serve"}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tvguide", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }
	configPath := fs.String("config", "", "path to config file (YAML)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return 2
	}
	name, cmdArgs := rest[0], rest[1:]

	switch name {
	case "version":
		fmt.Fprintf(stdout, "%s (commit: %s, built: %s)\n", version, commit, buildDate)
		return 0
	case "help":
		printUsage(stdout)
		return 0
	case "config":
		return runConfigCLI(strings.TrimSpace(*configPath), cmdArgs, stdout, stderr)
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", name)
		printUsage(stderr)
		return 2
	}

	cfg, err := config.NewLoader(strings.TrimSpace(*configPath), version).Load()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}

	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Output:  stderr,
		Service: "tvguide",
		Version: version,
	})
	logger := xglog.WithComponent("cli")

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    telemetry.DefaultServiceName,
		ServiceVersion: version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.ExporterType,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Telemetry error: %v\n", err)
		return 1
	}
	defer func() {
		if err := tp.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	src, err := source.New(cfg, source.Deps{})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger.Debug().
		Str(xglog.FieldEvent, "cli.command").
		Str("command", name).
		Str(xglog.FieldProvider, cfg.Provider).
		Str(xglog.FieldCachePath, cfg.CacheDir).
		Msg("running command")

	if err := cmd.run(ctx, env{cfg: cfg, src: src, stdout: stdout, stderr: stderr}, cmdArgs); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Usage: tvguide [-config file] %s\n", cmd.usage)
			return 2
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tvguide [-config file] <command> [args]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	for _, name := range commandOrder {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
	fmt.Fprintln(w, "  config validate|dump")
	fmt.Fprintln(w, "  version")
}
