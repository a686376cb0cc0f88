// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package packui

import (
	"context"
	"log/slog"

	"github.com/fedpak-project/fedpak/lib/clock"
	"github.com/fedpak-project/fedpak/lib/flatpak"
	"github.com/fedpak-project/fedpak/lib/operation"
	"github.com/fedpak-project/fedpak/lib/oplog"
	"github.com/fedpak-project/fedpak/lib/proton"
)

// AppLister enumerates installed Flatpak applications.
// *flatpak.Inventory is the production implementation.
type AppLister interface {
	Installed(ctx context.Context) ([]flatpak.App, error)
}

// ReleaseSource provides the Proton-GE release feed. Releases is the
// TTL-gated read; Refresh revalidates against upstream regardless of
// snapshot age. *proton.Fetcher is the production implementation.
type ReleaseSource interface {
	Releases(ctx context.Context) (*proton.Feed, error)
	Refresh(ctx context.Context) (*proton.Feed, error)
}

// Picker opens a graphical file chooser and returns the chosen path.
// Cancellation and chooser absence surface as the typed errors from
// lib/filepick.
type Picker interface {
	Pick(ctx context.Context, title, filter string) (string, error)
}

// Runner executes one operation. Implementations stream progress on
// events, emit exactly one Outcome event last, and close the channel
// when done — the contract of operation.Run. The model relies on the
// close to drop its listener and release the single-flight guard.
type Runner interface {
	Run(ctx context.Context, request operation.Request, targets []operation.Target, events chan<- operation.Event)
}

// EngineRunner is the production Runner: the operation engine with
// the log writer attached.
type EngineRunner struct {
	// Tools overrides external binary names.
	Tools operation.Tools

	// LogDir is where operation logs are written.
	LogDir string

	// Clock stamps the log and drives artifact recency. Nil defaults
	// to the real clock.
	Clock clock.Clock

	// Logger receives engine diagnostics.
	Logger *slog.Logger
}

// Run executes the request via operation.Run. The returned Outcome is
// discarded here: it reaches the model as the final event.
func (runner *EngineRunner) Run(ctx context.Context, request operation.Request, targets []operation.Target, events chan<- operation.Event) {
	operation.Run(ctx, operation.RunConfig{
		Request: request,
		Targets: targets,
		Tools:   runner.Tools,
		Events:  events,
		Log:     &oplog.Writer{Dir: runner.LogDir, Clock: runner.Clock},
		Logger:  runner.Logger,
		Clock:   runner.Clock,
	})
}
