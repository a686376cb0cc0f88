// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package filepick shells out to a desktop file-selection dialog.
//
// Two choosers are supported: zenity (GNOME) and kdialog (KDE). The
// configured tool is used when pinned; otherwise whichever is first
// found on PATH wins. Environments with neither get [ErrNoPicker],
// which callers treat as "ask the user to type the path".
package filepick

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// ErrCancelled reports that the user dismissed the dialog without
// choosing a file.
var ErrCancelled = errors.New("file selection cancelled")

// ErrNoPicker reports that no chooser tool is available.
var ErrNoPicker = errors.New("no file chooser available")

// Chooser locates and runs a graphical file-selection dialog.
// The zero value probes PATH for a supported tool on each Pick.
type Chooser struct {
	// Tool pins the chooser: "zenity", "kdialog", "none", or
	// "auto"/"" to probe PATH in that order. "none" disables the
	// chooser entirely.
	Tool string

	// Logger receives chooser diagnostics. Nil means slog.Default.
	Logger *slog.Logger

	// lookPath and execute are test seams. Nil means the real
	// exec.LookPath and a real subprocess. execute returns the
	// tool's stdout and exit status; its error is reserved for
	// spawn failures.
	lookPath func(file string) (string, error)
	execute  func(ctx context.Context, name string, args ...string) ([]byte, int, error)
}

// Pick opens the dialog and returns the chosen absolute path. filter
// is a space-separated glob list such as "*.deb *.tgz"; it scopes the
// dialog's file listing but the returned path is not validated
// against it.
func (c *Chooser) Pick(ctx context.Context, title, filter string) (string, error) {
	tool, err := c.resolveTool()
	if err != nil {
		return "", err
	}

	var args []string
	switch tool {
	case "zenity":
		args = []string{"--file-selection", "--title=" + title}
		if filter != "" {
			args = append(args, "--file-filter=Packages | "+filter)
		}
	case "kdialog":
		startDir, homeErr := os.UserHomeDir()
		if homeErr != nil {
			startDir = "."
		}
		args = []string{"--title", title, "--getopenfilename", startDir}
		if filter != "" {
			args = append(args, filter)
		}
	default:
		return "", fmt.Errorf("%w: unsupported tool %q", ErrNoPicker, tool)
	}

	c.log("opening file chooser", "tool", tool, "title", title)
	output, exitCode, err := c.run(ctx, tool, args...)
	if err != nil {
		return "", fmt.Errorf("running %s: %w", tool, err)
	}
	if exitCode == 1 {
		// Both tools exit 1 when the dialog is dismissed.
		return "", ErrCancelled
	}
	if exitCode != 0 {
		return "", fmt.Errorf("%s exited with status %d", tool, exitCode)
	}

	path := strings.TrimSpace(string(output))
	if path == "" {
		return "", ErrCancelled
	}
	return path, nil
}

// resolveTool maps the configured tool name to the binary to run,
// probing PATH when the choice is automatic.
func (c *Chooser) resolveTool() (string, error) {
	look := c.lookPath
	if look == nil {
		look = exec.LookPath
	}

	switch c.Tool {
	case "none":
		return "", ErrNoPicker
	case "zenity", "kdialog":
		if _, err := look(c.Tool); err != nil {
			return "", fmt.Errorf("%w: %s not on PATH", ErrNoPicker, c.Tool)
		}
		return c.Tool, nil
	case "", "auto":
		for _, candidate := range []string{"zenity", "kdialog"} {
			if _, err := look(candidate); err == nil {
				return candidate, nil
			}
		}
		return "", ErrNoPicker
	}
	return "", fmt.Errorf("%w: unknown tool %q", ErrNoPicker, c.Tool)
}

func (c *Chooser) run(ctx context.Context, name string, args ...string) ([]byte, int, error) {
	if c.execute != nil {
		return c.execute(ctx, name, args...)
	}
	command := exec.CommandContext(ctx, name, args...)
	output, err := command.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return output, exitErr.ExitCode(), nil
		}
		return nil, -1, err
	}
	return output, 0, nil
}

func (c *Chooser) log(message string, args ...any) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug(message, args...)
}
