// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/fedpak-project/fedpak/cmd/fedpak/cli"
	"github.com/fedpak-project/fedpak/lib/operation"
	"github.com/fedpak-project/fedpak/lib/oplog"
)

const eventBuffer = 64

// Command returns the "convert" command: a headless DEB/TGZ to RPM
// conversion.
func Command() *cli.Command {
	var dest string

	return &cli.Command{
		Name:    "convert",
		Summary: "Convert a DEB or TGZ package to RPM",
		Description: `Convert a Debian or tar archive package to RPM without the
interface.

The conversion runs through the privilege helper (alien needs root),
so expect an authentication prompt. The produced RPM lands next to the
source package unless --dest or the convert_dir setting says
otherwise; if the converter drops it somewhere else, it is moved.

On success the artifact path, BLAKE3 digest, and size are printed.
The transcript streams to stdout as it arrives — raw lines on a
terminal, JSON records when piped.`,
		Usage: "fedpak convert <file> [flags]",
		Examples: []cli.Example{
			{
				Description: "Convert a Debian package",
				Command:     "fedpak convert ~/Downloads/discord-0.0.114.deb",
			},
			{
				Description: "Convert into a specific directory",
				Command:     "fedpak convert pkg.tgz --dest ~/rpms",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("convert", pflag.ContinueOnError)
			flagSet.StringVar(&dest, "dest", "", "destination directory for the RPM (default: the package's directory)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			return run(ctx, args, dest, logger)
		},
	}
}

func run(ctx context.Context, args []string, dest string, logger *slog.Logger) error {
	if len(args) != 1 {
		return cli.Validation("convert takes exactly one package file, got %d arguments", len(args))
	}

	cfg, err := cli.LoadSettings()
	if err != nil {
		return err
	}
	if err := cfg.EnsurePaths(); err != nil {
		return cli.Internal("prepare directories: %w", err)
	}

	path, err := resolvePath(args[0])
	if err != nil {
		return err
	}
	kind, err := operation.KindForFile(path)
	if err != nil {
		return cli.Validation("%w", err)
	}

	workDir := dest
	if workDir == "" {
		workDir = cfg.Paths.ConvertDir
	}
	if workDir != "" {
		if workDir, err = filepath.Abs(workDir); err != nil {
			return cli.Validation("resolve destination %q: %w", dest, err)
		}
	}

	events := make(chan operation.Event, eventBuffer)
	go operation.Run(ctx, operation.RunConfig{
		Request: operation.Request{Kind: kind, FilePath: path, WorkDir: workDir},
		Tools:   cli.OperationTools(cfg),
		Events:  events,
		Log:     &oplog.Writer{Dir: cfg.Paths.LogDir},
		Logger:  logger,
	})

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	outcome := cli.StreamEvents(events, os.Stdout, tty)
	if outcome == nil {
		return cli.Internal("operation ended without an outcome")
	}
	if code := cli.OutcomeExitCode(outcome); code != 0 {
		return &cli.ExitError{Code: code}
	}
	return nil
}

// resolvePath expands a leading ~ and makes the package path
// absolute, verifying the file exists before anything spawns: a typo
// should not cost a privilege prompt.
func resolvePath(arg string) (string, error) {
	path := arg
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", cli.Internal("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return "", cli.Validation("resolve path %q: %w", arg, err)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", cli.NotFound("package file %s does not exist", path)
	}
	if err != nil {
		return "", cli.Internal("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", cli.Validation("%s is a directory, not a package file", path)
	}
	return path, nil
}
