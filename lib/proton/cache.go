// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package proton

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fedpak-project/fedpak/lib/codec"
)

// snapshot is the on-disk cache: the last successful fetch plus the
// entity tag to revalidate it with.
type snapshot struct {
	ETag      string    `cbor:"etag"`
	FetchedAt time.Time `cbor:"fetched_at"`

	// Source is "owner/repo". A snapshot from a different repository
	// (the user repointed the config) is ignored rather than served.
	Source string `cbor:"source"`

	Releases []Release `cbor:"releases"`
}

// DefaultCachePath returns the standard snapshot location:
// $XDG_STATE_HOME/fedpak/releases.cbor, falling back to
// ~/.local/state/fedpak/releases.cbor.
func DefaultCachePath() (string, error) {
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, "fedpak", "releases.cbor"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", "fedpak", "releases.cbor"), nil
}

// loadSnapshot reads the cache file. Returns nil when the cache is
// disabled, missing, unreadable, or belongs to another repository — in
// every case the caller just fetches.
func (fetcher *Fetcher) loadSnapshot(owner, repo string) *snapshot {
	if fetcher.CachePath == "" {
		return nil
	}

	data, err := os.ReadFile(fetcher.CachePath)
	if err != nil {
		if !os.IsNotExist(err) {
			fetcher.log().Warn("unreadable release snapshot", "path", fetcher.CachePath, "error", err)
		}
		return nil
	}

	var snap snapshot
	if err := codec.Unmarshal(data, &snap); err != nil {
		fetcher.log().Warn("corrupt release snapshot", "path", fetcher.CachePath, "error", err)
		return nil
	}

	if snap.Source != owner+"/"+repo {
		return nil
	}
	return &snap
}

// saveSnapshot writes the cache file atomically. Failures are logged
// and swallowed: the feed was already fetched, a cold cache next run
// is the only cost.
func (fetcher *Fetcher) saveSnapshot(snap *snapshot) {
	if fetcher.CachePath == "" {
		return
	}

	data, err := codec.Marshal(snap)
	if err != nil {
		fetcher.log().Warn("encoding release snapshot", "error", err)
		return
	}

	dir := filepath.Dir(fetcher.CachePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fetcher.log().Warn("creating snapshot directory", "path", dir, "error", err)
		return
	}

	tmpFile, err := os.CreateTemp(dir, ".releases.cbor.tmp-*")
	if err != nil {
		fetcher.log().Warn("creating snapshot temp file", "error", err)
		return
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		fetcher.log().Warn("writing release snapshot", "error", err)
		return
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		fetcher.log().Warn("syncing release snapshot", "error", err)
		return
	}
	if err := tmpFile.Close(); err != nil {
		fetcher.log().Warn("closing snapshot temp file", "error", err)
		return
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		fetcher.log().Warn("setting snapshot mode", "error", err)
		return
	}
	if err := os.Rename(tmpPath, fetcher.CachePath); err != nil {
		fetcher.log().Warn("renaming snapshot into place", "error", err)
		return
	}
	success = true
}
