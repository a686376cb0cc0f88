// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package oplog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fedpak-project/fedpak/lib/clock"
)

// DefaultDir returns the standard operation log directory:
// $XDG_STATE_HOME/fedpak, falling back to ~/.local/state/fedpak.
func DefaultDir() (string, error) {
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, "fedpak"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", "fedpak"), nil
}

// Writer persists operation records, one file per operation.
type Writer struct {
	// Dir is the log directory. Created on first write if absent.
	Dir string

	// Clock stamps records and filenames. Nil defaults to the real
	// clock.
	Clock clock.Clock
}

// Write renders and persists the record, returning the path of the
// written file. The write is atomic: the content lands in a temp file
// in the same directory, then renames into place. Directory creation
// is idempotent. Filenames carry second-granularity timestamps; a
// same-second collision overwrites, which is acceptable at expected
// operation frequency.
func (w *Writer) Write(record Record) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating log directory %s: %w", w.Dir, err)
	}

	now := w.clock().Now()
	name := fmt.Sprintf("fedpak_%s_%s.log", record.Operation, now.Format(filenameTimeFormat))
	finalPath := filepath.Join(w.Dir, name)

	tmpFile, err := os.CreateTemp(w.Dir, "."+name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp log file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.WriteString(record.render(now)); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("writing log record: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("syncing log record: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("closing temp log file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return "", fmt.Errorf("setting log file mode: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", fmt.Errorf("renaming log into place: %w", err)
	}

	success = true
	return finalPath, nil
}

func (w *Writer) clock() clock.Clock {
	if w.Clock != nil {
		return w.Clock
	}
	return clock.Real()
}
