// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fedpak-project/fedpak/cmd/fedpak/cli"
	"github.com/fedpak-project/fedpak/lib/config"
	"github.com/fedpak-project/fedpak/lib/filepick"
	"github.com/fedpak-project/fedpak/lib/flatpak"
	"github.com/fedpak-project/fedpak/lib/packui"
	"github.com/fedpak-project/fedpak/lib/version"
)

// Command returns the "ui" command: the full-screen terminal interface.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "ui",
		Summary: "Open the tabbed terminal interface",
		Description: `Open the full-screen terminal interface.

Four tabs: Updates (installed Flatpak applications, multi-select,
update), Proton (Proton-GE releases with changelogs), Convert (DEB and
TGZ packages to RPM), and Logs (past operation records). Number keys
and mouse clicks switch tabs; '?' bindings are shown in the help bar.

One operation runs at a time. Quitting while one is in flight leaves
it running to completion; fedpak never interrupts a package
transaction.`,
		Usage: "fedpak ui",
		Examples: []cli.Example{
			{
				Description: "Open the interface",
				Command:     "fedpak ui",
			},
			{
				Description: "Open with a specific settings file",
				Command:     "FEDPAK_CONFIG=./dev.yaml fedpak ui",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("ui takes no arguments, got %q", args[0])
			}
			return run(ctx, logger)
		},
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := cli.LoadSettings()
	if err != nil {
		return err
	}
	if err := cfg.EnsurePaths(); err != nil {
		return cli.Internal("prepare directories: %w", err)
	}
	palette, err := cli.LoadTheme(cfg)
	if err != nil {
		return err
	}

	// The terminal belongs to the interface once the program starts:
	// diagnostics go to the configured file, never to stderr, which
	// would corrupt the alt-screen display.
	fileLogger, closeLog := newFileLogger(cfg, logger)
	defer closeLog()

	// Token resolution may prompt for the sealing passphrase; this
	// must happen now, while stdin is still a plain terminal.
	releases, err := cli.NewReleaseSource(cfg, fileLogger)
	if err != nil {
		return err
	}

	model := packui.NewModel(packui.Options{
		Settings: cfg,
		Theme:    palette,
		Version:  version.Short(),
		Apps:     &flatpak.Inventory{Binary: cfg.Tools.Flatpak},
		Releases: releases,
		Runner: &packui.EngineRunner{
			Tools:  cli.OperationTools(cfg),
			LogDir: cfg.Paths.LogDir,
			Logger: fileLogger,
		},
		Picker: &filepick.Chooser{Tool: cfg.Tools.FilePicker, Logger: fileLogger},
		LogDir: cfg.Paths.LogDir,
		Logger: fileLogger,
	})

	options := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.UI.Mouse {
		options = append(options, tea.WithMouseAllMotion())
	}

	program := tea.NewProgram(model, options...)
	_, err = program.Run()
	return err
}

// newFileLogger opens the configured diagnostic log file. An empty
// path or an unopenable file degrades to a discard logger with a note
// on the startup logger: losing diagnostics is better than losing the
// interface.
func newFileLogger(cfg *config.Config, startup *slog.Logger) (*slog.Logger, func()) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg.Logging.File == "" {
		return discard, func() {}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0o755); err != nil {
		startup.Warn("diagnostic log disabled", "path", cfg.Logging.File, "error", err)
		return discard, func() {}
	}
	file, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		startup.Warn("diagnostic log disabled", "path", cfg.Logging.File, "error", err)
		return discard, func() {}
	}

	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: cfg.Logging.SlogLevel()})
	return slog.New(handler), func() { file.Close() }
}
