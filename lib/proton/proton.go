// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package proton tracks releases of custom Proton builds for the
// changelog view. Release listings come from the GitHub API and are
// snapshotted to disk, so the view works offline and repeated launches
// within the cache TTL cost no API quota at all.
package proton

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fedpak-project/fedpak/lib/clock"
	"github.com/fedpak-project/fedpak/lib/github"
)

// Default repository: GloriousEggroll's Proton-GE builds.
const (
	DefaultOwner = "GloriousEggroll"
	DefaultRepo  = "proton-ge-custom"
)

// DefaultTTL is how long a snapshot is served without asking GitHub
// whether anything changed. Proton-GE releases land weeks apart, so a
// few hours of staleness is invisible in practice.
const DefaultTTL = 6 * time.Hour

// defaultPerPage is the number of releases fetched per refresh. One
// page covers roughly a year of Proton-GE history.
const defaultPerPage = 30

// Release is one Proton build.
type Release struct {
	// Tag is the git tag, e.g. "GE-Proton10-4". Tags double as the
	// install directory name under Steam's compatibilitytools.d.
	Tag string `cbor:"tag"`

	// Title is the release title, falling back to the tag when the
	// publisher left it empty.
	Title string `cbor:"title"`

	// Notes is the changelog as GitHub-flavored markdown.
	Notes string `cbor:"notes"`

	// URL is the release page on GitHub.
	URL string `cbor:"url"`

	// Published is when the release went live.
	Published time.Time `cbor:"published"`

	// TarballName and TarballSize describe the installable archive
	// asset, when the release carries one.
	TarballName string `cbor:"tarball_name"`
	TarballSize int64  `cbor:"tarball_size"`
}

// Feed is a set of releases plus provenance: when they were fetched
// and whether they came from disk because GitHub was unreachable.
type Feed struct {
	Releases  []Release
	FetchedAt time.Time

	// Offline is true when the feed was served from the snapshot
	// after a failed fetch. The UI surfaces this as an "offline"
	// marker next to the fetch age.
	Offline bool
}

// Fetcher loads the release feed, preferring the on-disk snapshot
// while it is fresh and revalidating against GitHub with the stored
// entity tag once it is not.
type Fetcher struct {
	// Client performs the API requests.
	Client *github.Client

	// Owner and Repo select the release source. Empty values mean
	// the Proton-GE repository.
	Owner string
	Repo  string

	// CachePath is where the snapshot lives. Empty disables the
	// cache entirely: every call fetches.
	CachePath string

	// TTL is the snapshot freshness window. Zero means DefaultTTL.
	TTL time.Duration

	// Clock provides time operations. Nil defaults to the real clock.
	Clock clock.Clock

	// Logger is used for structured logging. Nil defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Releases returns the release feed. A fresh snapshot is returned
// without network traffic. A stale or missing snapshot triggers a
// conditional fetch; a 304 refreshes the snapshot's age, a full
// response replaces it. When the fetch fails and a snapshot exists,
// the snapshot is served with Feed.Offline set.
func (fetcher *Fetcher) Releases(ctx context.Context) (*Feed, error) {
	owner, repo := fetcher.source()
	now := fetcher.clock().Now()

	snap := fetcher.loadSnapshot(owner, repo)
	if snap != nil && now.Sub(snap.FetchedAt) < fetcher.ttl() {
		return &Feed{Releases: snap.Releases, FetchedAt: snap.FetchedAt}, nil
	}

	return fetcher.revalidate(ctx, owner, repo, snap, now)
}

// Refresh revalidates against GitHub regardless of snapshot age. The
// stored entity tag still rides along, so an unchanged listing costs a
// 304 rather than a full response. This is the interface's explicit
// refresh; [Releases] is the TTL-gated path everything else uses.
func (fetcher *Fetcher) Refresh(ctx context.Context) (*Feed, error) {
	owner, repo := fetcher.source()
	now := fetcher.clock().Now()
	snap := fetcher.loadSnapshot(owner, repo)
	return fetcher.revalidate(ctx, owner, repo, snap, now)
}

// revalidate performs the conditional fetch and snapshot update shared
// by [Releases] and [Refresh]. snap may be nil (cold cache).
func (fetcher *Fetcher) revalidate(ctx context.Context, owner, repo string, snap *snapshot, now time.Time) (*Feed, error) {
	etag := ""
	if snap != nil {
		etag = snap.ETag
	}

	path := github.ReleasesPath(owner, repo, github.ListReleasesOptions{PerPage: defaultPerPage})
	conditional, err := fetcher.Client.GetConditional(ctx, path, etag)
	if err != nil {
		if snap != nil {
			fetcher.log().Warn("serving cached releases, fetch failed",
				"repo", owner+"/"+repo,
				"age", now.Sub(snap.FetchedAt),
				"error", err,
			)
			return &Feed{Releases: snap.Releases, FetchedAt: snap.FetchedAt, Offline: true}, nil
		}
		return nil, fmt.Errorf("fetching releases of %s/%s: %w", owner, repo, err)
	}

	if conditional.NotModified {
		// Nothing changed upstream. Restart the freshness window so
		// the next TTL's worth of calls stay off the network.
		snap.FetchedAt = now
		fetcher.saveSnapshot(snap)
		return &Feed{Releases: snap.Releases, FetchedAt: now}, nil
	}

	var wire []github.Release
	if err := json.Unmarshal(conditional.Body, &wire); err != nil {
		return nil, fmt.Errorf("decoding releases of %s/%s: %w", owner, repo, err)
	}

	releases := make([]Release, 0, len(wire))
	for _, entry := range wire {
		if entry.Draft {
			continue
		}
		releases = append(releases, fromGitHub(entry))
	}

	snap = &snapshot{
		ETag:      conditional.ETag,
		FetchedAt: now,
		Source:    owner + "/" + repo,
		Releases:  releases,
	}
	fetcher.saveSnapshot(snap)

	return &Feed{Releases: releases, FetchedAt: now}, nil
}

// Release returns a single release by tag. The feed is consulted
// first; tags older than the feed window fall through to a direct
// lookup.
func (fetcher *Fetcher) Release(ctx context.Context, tag string) (*Release, error) {
	feed, err := fetcher.Releases(ctx)
	if err != nil {
		return nil, err
	}
	for i := range feed.Releases {
		if feed.Releases[i].Tag == tag {
			return &feed.Releases[i], nil
		}
	}

	owner, repo := fetcher.source()
	wire, err := fetcher.Client.GetReleaseByTag(ctx, owner, repo, tag)
	if err != nil {
		return nil, err
	}
	release := fromGitHub(*wire)
	return &release, nil
}

// fromGitHub maps a wire release to the domain model.
func fromGitHub(wire github.Release) Release {
	release := Release{
		Tag:       wire.TagName,
		Title:     wire.Name,
		Notes:     wire.Body,
		URL:       wire.HTMLURL,
		Published: wire.PublishedAt,
	}
	if release.Title == "" {
		release.Title = wire.TagName
	}
	for _, asset := range wire.Assets {
		if strings.HasSuffix(asset.Name, ".tar.gz") || strings.HasSuffix(asset.Name, ".tar.xz") {
			release.TarballName = asset.Name
			release.TarballSize = asset.Size
			break
		}
	}
	return release
}

func (fetcher *Fetcher) source() (string, string) {
	owner, repo := fetcher.Owner, fetcher.Repo
	if owner == "" {
		owner = DefaultOwner
	}
	if repo == "" {
		repo = DefaultRepo
	}
	return owner, repo
}

func (fetcher *Fetcher) ttl() time.Duration {
	if fetcher.TTL > 0 {
		return fetcher.TTL
	}
	return DefaultTTL
}

func (fetcher *Fetcher) clock() clock.Clock {
	if fetcher.Clock != nil {
		return fetcher.Clock
	}
	return clock.Real()
}

func (fetcher *Fetcher) log() *slog.Logger {
	if fetcher.Logger != nil {
		return fetcher.Logger
	}
	return slog.Default()
}
