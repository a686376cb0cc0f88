// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package oplog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/fedpak-project/fedpak/lib/clock"
)

// PruneOptions controls a prune pass.
type PruneOptions struct {
	// MaxAge is the age beyond which logs are compressed (and, with
	// RemoveArchives, archives are deleted).
	MaxAge time.Duration

	// Keep is the number of newest logs never touched regardless of
	// age.
	Keep int

	// RemoveArchives also deletes compressed archives older than
	// MaxAge. Without it, archives accumulate indefinitely.
	RemoveArchives bool
}

// PruneResult summarizes a prune pass.
type PruneResult struct {
	// Compressed counts logs converted to .zst archives.
	Compressed int

	// Removed counts deleted archives.
	Removed int

	// Reclaimed is the net number of bytes freed.
	Reclaimed int64
}

// Pruner compresses aged operation logs and removes expired archives.
type Pruner struct {
	// Dir is the log directory.
	Dir string

	// Clock supplies the current time for age comparison. Nil
	// defaults to the real clock.
	Clock clock.Clock

	// Logger receives per-file diagnostics. Nil disables them.
	Logger *slog.Logger
}

// Prune applies options to the log directory. Entries are aged by
// their filename timestamp, so a restored backup prunes the same way
// the original did.
func (p *Pruner) Prune(options PruneOptions) (PruneResult, error) {
	entries, err := List(p.Dir)
	if err != nil {
		return PruneResult{}, err
	}

	now := p.clock().Now()
	var result PruneResult
	for index, entry := range entries {
		if index < options.Keep {
			continue
		}
		if now.Sub(entry.Timestamp) <= options.MaxAge {
			continue
		}

		if entry.Compressed {
			if !options.RemoveArchives {
				continue
			}
			if err := os.Remove(entry.Path); err != nil {
				return result, fmt.Errorf("removing archive %s: %w", entry.Path, err)
			}
			p.log("archive removed", "path", entry.Path)
			result.Removed++
			result.Reclaimed += entry.Size
			continue
		}

		saved, err := compressLog(entry.Path)
		if err != nil {
			return result, err
		}
		p.log("log compressed", "path", entry.Path, "saved_bytes", saved)
		result.Compressed++
		result.Reclaimed += saved
	}
	return result, nil
}

// compressLog writes path.zst next to the log and removes the
// original. Returns the byte count saved.
func compressLog(path string) (int64, error) {
	source, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening log %s: %w", path, err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat log %s: %w", path, err)
	}

	archivePath := path + ".zst"
	archive, err := os.OpenFile(archivePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("creating archive %s: %w", archivePath, err)
	}

	// Level 3: the better-ratio choice for text content.
	encoder, err := zstd.NewWriter(archive, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		archive.Close()
		os.Remove(archivePath)
		return 0, fmt.Errorf("initializing zstd encoder: %w", err)
	}
	if _, err := io.Copy(encoder, source); err != nil {
		encoder.Close()
		archive.Close()
		os.Remove(archivePath)
		return 0, fmt.Errorf("compressing %s: %w", path, err)
	}
	if err := encoder.Close(); err != nil {
		archive.Close()
		os.Remove(archivePath)
		return 0, fmt.Errorf("finishing archive %s: %w", archivePath, err)
	}
	if err := archive.Close(); err != nil {
		os.Remove(archivePath)
		return 0, fmt.Errorf("closing archive %s: %w", archivePath, err)
	}

	archiveInfo, err := os.Stat(archivePath)
	if err != nil {
		return 0, fmt.Errorf("stat archive %s: %w", archivePath, err)
	}
	if err := os.Remove(path); err != nil {
		return 0, fmt.Errorf("removing original log %s: %w", path, err)
	}
	return info.Size() - archiveInfo.Size(), nil
}

func (p *Pruner) clock() clock.Clock {
	if p.Clock != nil {
		return p.Clock
	}
	return clock.Real()
}

func (p *Pruner) log(message string, args ...any) {
	if p.Logger != nil {
		p.Logger.Debug(message, args...)
	}
}
