// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package flatpak provides typed access to the flatpak CLI for the
// installed-application inventory. The update operation itself goes
// through lib/operation (it needs the streaming runner); this package
// covers the quick read-only queries the UI needs to populate lists
// and the classifier needs for target recognition.
package flatpak

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/fedpak-project/fedpak/lib/operation"
)

// App is one installed Flatpak application.
type App struct {
	// ID is the reverse-DNS application identifier.
	ID string

	// Name is the human display name. May equal ID when the
	// application ships no name.
	Name string

	// Version is the installed version string. May be empty.
	Version string

	// Origin is the remote the application was installed from.
	Origin string
}

// Inventory queries the local Flatpak installation.
type Inventory struct {
	// Binary is the flatpak executable. Empty means "flatpak".
	Binary string
}

// Installed returns the installed applications, in flatpak's own
// order (alphabetical by ID). Runtimes are excluded.
func (inv *Inventory) Installed(ctx context.Context) ([]App, error) {
	output, err := inv.run(ctx, "list", "--app", "--columns=application,name,version,origin")
	if err != nil {
		return nil, err
	}
	return parseList(output), nil
}

// run executes a flatpak query command and returns stdout. Stderr is
// captured separately and included in error messages on failure.
// Unlike operation commands, inventory queries are cheap and
// idempotent, so context cancellation may kill them.
func (inv *Inventory) run(ctx context.Context, args ...string) (string, error) {
	binary := inv.Binary
	if binary == "" {
		binary = "flatpak"
	}

	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, binary, args...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("flatpak %s: %w (stderr: %s)",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// parseList parses `flatpak list --columns=...` output: one
// application per line, columns tab-separated. Missing trailing
// columns (old flatpak versions omit empty fields) leave the
// corresponding App fields empty.
func parseList(output string) []App {
	var apps []App
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		app := App{ID: strings.TrimSpace(fields[0])}
		if app.ID == "" {
			continue
		}
		if len(fields) > 1 {
			app.Name = strings.TrimSpace(fields[1])
		}
		if len(fields) > 2 {
			app.Version = strings.TrimSpace(fields[2])
		}
		if len(fields) > 3 {
			app.Origin = strings.TrimSpace(fields[3])
		}
		if app.Name == "" {
			app.Name = app.ID
		}
		apps = append(apps, app)
	}
	return apps
}

// Targets converts the inventory into classifier targets. The display
// name is dropped when it merely repeats the ID.
func Targets(apps []App) []operation.Target {
	targets := make([]operation.Target, 0, len(apps))
	for _, app := range apps {
		target := operation.Target{AppID: app.ID}
		if app.Name != app.ID {
			target.Name = app.Name
		}
		targets = append(targets, target)
	}
	return targets
}
