// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"
)

// Version is the release version, set at build time.
var Version = "dev"

// Args holds the parsed command-line options.
type Args struct {
	// Plain runs the line-based REPL instead of the full-screen TUI.
	Plain bool

	// ConfigPath overrides the default config file location.
	ConfigPath string

	// ShowVersion prints the version and exits.
	ShowVersion bool

	// ShowHelp prints usage and exits.
	ShowHelp bool
}

// Parse parses command-line arguments (without the program name).
func Parse(argv []string) (*Args, error) {
	args := &Args{}

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--plain" || arg == "-p":
			args.Plain = true
		case arg == "--version" || arg == "-V":
			args.ShowVersion = true
		case arg == "--help" || arg == "-h":
			args.ShowHelp = true
		case arg == "--config" || arg == "-c":
			if i+1 >= len(argv) {
				return nil, fmt.Errorf("%s requires a file path", arg)
			}
			i++
			args.ConfigPath = argv[i]
		case strings.HasPrefix(arg, "--config="):
			args.ConfigPath = strings.TrimPrefix(arg, "--config=")
			if args.ConfigPath == "" {
				return nil, fmt.Errorf("--config requires a file path")
			}
		default:
			return nil, fmt.Errorf("unknown argument: %s", arg)
		}
	}

	return args, nil
}

// Usage returns the help text.
func Usage() string {
	return `parley - a simulated chat companion

Usage:
  parley [flags]

Flags:
  -p, --plain          Run the line-based REPL instead of the TUI
  -c, --config PATH    Use a specific config file
  -V, --version        Print version and exit
  -h, --help           Show this help
`
}
