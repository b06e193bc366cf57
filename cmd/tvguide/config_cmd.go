// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/ManuGH/tvguide/internal/config"
	"gopkg.in/yaml.v3"
)

func runConfigCLI(configPath string, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage(stderr)
		return 2
	}

	switch args[0] {
	case "validate":
		return runConfigValidate(configPath, stdout, stderr)
	case "dump":
		return runConfigDump(configPath, args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown subcommand: %s\n\n", args[0])
		printConfigUsage(stderr)
		return 2
	}
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tvguide [-config file] config validate")
	fmt.Fprintln(w, "  tvguide [-config file] config dump [--format=yaml|json]")
}

func runConfigValidate(configPath string, stdout, stderr io.Writer) int {
	if _, err := config.NewLoader(configPath, version).Load(); err != nil {
		fmt.Fprintf(stderr, "Configuration error:\n  %v\n", err)
		return 1
	}
	if configPath == "" {
		fmt.Fprintln(stdout, "configuration (defaults + environment) is valid")
	} else {
		fmt.Fprintf(stdout, "%s is valid\n", configPath)
	}
	return 0
}

func runConfigDump(configPath string, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tvguide config dump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", "yaml", "output format (yaml|json)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.NewLoader(configPath, version).Load()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error:\n  %v\n", err)
		return 1
	}
	fc := cfg.ToFileConfig()

	switch *format {
	case "yaml":
		out, err := yaml.Marshal(fc)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		_, _ = stdout.Write(out)
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(fc); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	default:
		fmt.Fprintf(stderr, "Unsupported format: %s\n", *format)
		return 2
	}
	return 0
}
