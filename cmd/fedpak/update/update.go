// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package update

import (
	"context"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/fedpak-project/fedpak/cmd/fedpak/cli"
	"github.com/fedpak-project/fedpak/lib/flatpak"
	"github.com/fedpak-project/fedpak/lib/operation"
	"github.com/fedpak-project/fedpak/lib/oplog"
)

// eventBuffer sizes the progress channel. The consumer prints as fast
// as the terminal accepts; the buffer only smooths bursts.
const eventBuffer = 64

// Command returns the "update" command: a headless Flatpak update.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "update",
		Summary: "Update installed Flatpak applications",
		Description: `Update Flatpak applications without the interface.

With no arguments, every installed application is updated. With
application IDs, only those are. The transcript streams to stdout as
it arrives — raw lines on a terminal, JSON records when piped — and
the operation log is written either way.

"Nothing to do." from flatpak is a clean exit: the system was already
up to date. Real failures exit non-zero with flatpak's own exit code.`,
		Usage: "fedpak update [app-id...]",
		Examples: []cli.Example{
			{
				Description: "Update everything",
				Command:     "fedpak update",
			},
			{
				Description: "Update two specific applications",
				Command:     "fedpak update org.mozilla.firefox com.spotify.Client",
			},
			{
				Description: "Nightly update from cron, logs as JSON",
				Command:     "fedpak update 2>&1 | logger -t fedpak",
			},
		},
		Run: run,
	}
}

func run(ctx context.Context, args []string, logger *slog.Logger) error {
	cfg, err := cli.LoadSettings()
	if err != nil {
		return err
	}
	if err := cfg.EnsurePaths(); err != nil {
		return cli.Internal("prepare directories: %w", err)
	}

	inventory := &flatpak.Inventory{Binary: cfg.Tools.Flatpak}
	apps, err := inventory.Installed(ctx)
	if err != nil {
		return cli.Internal("list installed applications: %w", err)
	}

	// Reject unknown IDs before spawning anything: a typo should not
	// cost a privilege prompt.
	if id := unknownTarget(args, apps); id != "" {
		return cli.NotFound("application %q is not installed", id).
			WithHint("Run 'fedpak update' with no arguments to update everything, or 'fedpak ui' to browse what is installed.")
	}

	events := make(chan operation.Event, eventBuffer)
	go operation.Run(ctx, operation.RunConfig{
		Request: operation.Request{Kind: operation.KindFlatpakUpdate, AppIDs: args},
		Targets: flatpak.Targets(apps),
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
		// The failure has already been narrated by the stream.
		return &cli.ExitError{Code: code}
	}
	return nil
}

// unknownTarget returns the first requested ID that is not installed,
// or "" when every ID (or none) was requested.
func unknownTarget(args []string, apps []flatpak.App) string {
	if len(args) == 0 {
		return ""
	}
	known := make(map[string]bool, len(apps))
	for _, app := range apps {
		known[app.ID] = true
	}
	for _, id := range args {
		if !known[id] {
			return id
		}
	}
	return ""
}
