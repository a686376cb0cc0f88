// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fedpak-project/fedpak/lib/clock"
)

// RecencyWindow bounds the mtime-based fallback: only .rpm files
// modified within this window of the lookup are candidates. Wide
// enough to cover a slow conversion, narrow enough to exclude RPMs
// that happened to be lying around.
const RecencyWindow = 120 * time.Second

// LocateRequest describes where a conversion may have left its RPM.
type LocateRequest struct {
	// RequestedDir is the directory the conversion was asked to run
	// in, and where the artifact is supposed to be.
	RequestedDir string

	// FilenameHint is the bare RPM filename the tool announced, as
	// extracted by the output classifier. Empty when the
	// announcement could not be parsed.
	FilenameHint string

	// Transcript is the operation transcript, scanned for the
	// envelope's pwd echo.
	Transcript []string
}

// MissingError reports that no RPM was found in any candidate
// directory. Carries the directories that were searched so the
// failure can enumerate them.
type MissingError struct {
	SearchedDirs []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("no RPM found in %s", strings.Join(e.SearchedDirs, ", "))
}

// Locator finds the RPM a conversion produced.
type Locator struct {
	// Clock supplies the current time for the recency window. Nil
	// defaults to the real clock.
	Clock clock.Clock

	// Logger receives probe diagnostics. Nil disables them.
	Logger *slog.Logger

	// HelperHome is the privilege helper's default working
	// directory, searched when the pwd echo indicates drift. Empty
	// defaults to root's home.
	HelperHome string

	// Window overrides RecencyWindow. Zero selects the default.
	Window time.Duration
}

// Locate returns the absolute path of the produced RPM, trying in
// order: the announced filename in each candidate directory, then the
// newest recently-modified .rpm across the candidates. Returns a
// *MissingError when nothing qualifies.
func (l *Locator) Locate(ctx context.Context, request LocateRequest) (string, error) {
	searchDirs := l.searchSet(request)

	if request.FilenameHint != "" {
		for _, dir := range searchDirs {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			candidate := filepath.Join(dir, filepath.Base(request.FilenameHint))
			info, err := os.Stat(candidate)
			if err == nil && info.Mode().IsRegular() {
				l.log("artifact found via filename hint", "path", candidate)
				return candidate, nil
			}
		}
	}

	path, found := l.newestRecentRPM(ctx, searchDirs)
	if found {
		l.log("artifact found via recency scan", "path", path)
		return path, nil
	}

	return "", &MissingError{SearchedDirs: searchDirs}
}

// searchSet builds the ordered candidate directories: the requested
// directory always, then — when the pwd echo shows the child ran
// somewhere else — the observed directory and the helper's home.
func (l *Locator) searchSet(request LocateRequest) []string {
	dirs := []string{request.RequestedDir}

	observed := pwdEcho(request.Transcript)
	if observed == "" || observed == request.RequestedDir {
		return dirs
	}

	l.log("working directory drift detected",
		"requested", request.RequestedDir, "observed", observed)
	dirs = append(dirs, observed)

	helperHome := l.HelperHome
	if helperHome == "" {
		helperHome = "/root"
	}
	if helperHome != observed && helperHome != request.RequestedDir {
		dirs = append(dirs, helperHome)
	}
	return dirs
}

// pwdEcho returns the first transcript line that is a bare absolute
// path. The envelope runs pwd before the conversion tool produces any
// output, so the first such line is the echo; tool diagnostics always
// carry surrounding text.
func pwdEcho(lines []string) string {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "/") && !strings.ContainsAny(trimmed, " \t") {
			return trimmed
		}
	}
	return ""
}

// newestRecentRPM scans the candidate directories for .rpm files
// modified within the recency window and returns the newest. Ties
// keep the earliest-enumerated file, so the requested directory wins
// over drift candidates.
func (l *Locator) newestRecentRPM(ctx context.Context, dirs []string) (string, bool) {
	now := l.clock().Now()
	window := l.Window
	if window <= 0 {
		window = RecencyWindow
	}

	var bestPath string
	var bestTime time.Time
	for _, dir := range dirs {
		if ctx.Err() != nil {
			return "", false
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			l.log("skipping unreadable directory", "dir", dir, "error", err)
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".rpm") {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if now.Sub(info.ModTime()) > window {
				continue
			}
			if bestPath == "" || info.ModTime().After(bestTime) {
				bestPath = filepath.Join(dir, entry.Name())
				bestTime = info.ModTime()
			}
		}
	}
	return bestPath, bestPath != ""
}

func (l *Locator) clock() clock.Clock {
	if l.Clock != nil {
		return l.Clock
	}
	return clock.Real()
}

func (l *Locator) log(message string, args ...any) {
	if l.Logger != nil {
		l.Logger.Debug(message, args...)
	}
}
