// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package oplog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Entry describes one operation log file on disk.
type Entry struct {
	// Path is the absolute file path.
	Path string

	// Operation is the operation kind parsed from the filename.
	Operation string

	// Timestamp is the operation time parsed from the filename.
	Timestamp time.Time

	// Size is the on-disk size in bytes (compressed size for
	// archives).
	Size int64

	// Success is the Status line of the record.
	Success bool

	// Compressed is true for pruned .log.zst archives.
	Compressed bool
}

// List returns the operation logs in dir, newest first. A missing
// directory yields an empty list — no operations have run yet.
func List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading log directory %s: %w", dir, err)
	}

	var entries []Entry
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() {
			continue
		}
		operation, timestamp, compressed, ok := parseFilename(dirEntry.Name())
		if !ok {
			continue
		}
		info, err := dirEntry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(dir, dirEntry.Name())
		content, err := Read(path)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Path:       path,
			Operation:  operation,
			Timestamp:  timestamp,
			Size:       info.Size(),
			Success:    statusLine(content) == "SUCCESS",
			Compressed: compressed,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

// Read returns the full record content, transparently decompressing
// pruned archives.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading log %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".zst") {
		return string(data), nil
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return "", fmt.Errorf("initializing zstd decoder: %w", err)
	}
	defer decoder.Close()
	decoded, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return "", fmt.Errorf("decompressing log %s: %w", path, err)
	}
	return string(decoded), nil
}

// parseFilename splits fedpak_<operation>_<timestamp>.log[.zst]. The
// timestamp field is fixed-width, so operations containing dashes
// parse unambiguously.
func parseFilename(name string) (operation string, timestamp time.Time, compressed bool, ok bool) {
	base := name
	if strings.HasSuffix(base, ".zst") {
		compressed = true
		base = strings.TrimSuffix(base, ".zst")
	}
	if !strings.HasSuffix(base, ".log") {
		return "", time.Time{}, false, false
	}
	base = strings.TrimSuffix(base, ".log")

	const prefix = "fedpak_"
	if !strings.HasPrefix(base, prefix) {
		return "", time.Time{}, false, false
	}
	base = strings.TrimPrefix(base, prefix)

	stampWidth := len(filenameTimeFormat)
	if len(base) < stampWidth+2 {
		return "", time.Time{}, false, false
	}
	stampStart := len(base) - stampWidth
	if base[stampStart-1] != '_' {
		return "", time.Time{}, false, false
	}
	stamp, err := time.ParseInLocation(filenameTimeFormat, base[stampStart:], time.Local)
	if err != nil {
		return "", time.Time{}, false, false
	}
	return base[:stampStart-1], stamp, compressed, true
}

// statusLine extracts the Status value from a record's header, or ""
// when the record is malformed.
func statusLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if line == delimiter {
			return ""
		}
		if value, found := strings.CutPrefix(line, "Status: "); found {
			return value
		}
	}
	return ""
}
