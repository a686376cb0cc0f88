// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"os"

	"github.com/fedpak-project/fedpak/cmd/fedpak/cli"
	"github.com/fedpak-project/fedpak/lib/process"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output (like update and
		// convert, which stream the transcript) return an exitError
		// with the desired exit code. Don't print a redundant
		// "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		var toolErr *cli.ToolError
		if errors.As(err, &toolErr) {
			process.FatalCode(err, cli.ExitCode(toolErr.Category))
		}
		process.Fatal(err)
	}
}

func run() error {
	// --verbose is a global flag: strip it here so every subcommand
	// gets debug logging without declaring the flag itself.
	args, verbose := stripGlobalFlags(os.Args[1:])
	if verbose {
		cli.SetVerbose()
	}
	return rootCommand().Execute(args)
}

// stripGlobalFlags removes --verbose and -v from args wherever they
// appear and reports whether either was present.
func stripGlobalFlags(args []string) (rest []string, verbose bool) {
	rest = make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "--verbose" || arg == "-v" {
			verbose = true
			continue
		}
		rest = append(rest, arg)
	}
	return rest, verbose
}
