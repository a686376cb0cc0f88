// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Release is a GitHub repository release. Body carries the release
// notes as GitHub-flavored markdown.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Body        string    `json:"body"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	HTMLURL     string    `json:"html_url"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
}

// Asset is a downloadable file attached to a release.
type Asset struct {
	Name          string `json:"name"`
	Size          int64  `json:"size"`
	DownloadCount int64  `json:"download_count"`
	ContentType   string `json:"content_type"`
	DownloadURL   string `json:"browser_download_url"`
}

// ListReleasesOptions controls pagination for ListReleases.
type ListReleasesOptions struct {
	PerPage int // results per page (max 100, default 30)
}

func (options ListReleasesOptions) queryParams() string {
	if options.PerPage > 0 {
		return fmt.Sprintf("per_page=%d", options.PerPage)
	}
	return ""
}

// ReleasesPath returns the API path for a repository's releases list,
// including query parameters. Exported for callers that fetch the list
// through GetConditional instead of the iterator.
func ReleasesPath(owner, repo string, options ListReleasesOptions) string {
	basePath := fmt.Sprintf("/repos/%s/%s/releases", owner, repo)
	return buildListPath(basePath, options)
}

// ListReleases returns a paginated iterator over a repository's
// releases, newest first. Draft releases appear only for tokens with
// write access; anonymous clients see published releases only.
func (client *Client) ListReleases(owner, repo string, options ListReleasesOptions) *PageIterator[Release] {
	return list[Release](client, ReleasesPath(owner, repo, options))
}

// GetReleaseByTag retrieves a single release by its git tag.
func (client *Client) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*Release, error) {
	var release Release
	path := fmt.Sprintf("/repos/%s/%s/releases/tags/%s", owner, repo, url.PathEscape(tag))
	if err := client.get(ctx, path, &release); err != nil {
		return nil, fmt.Errorf("getting release %s/%s@%s: %w", owner, repo, tag, err)
	}
	return &release, nil
}

// GetLatestRelease retrieves the most recent published full release.
// Prereleases and drafts are not considered.
func (client *Client) GetLatestRelease(ctx context.Context, owner, repo string) (*Release, error) {
	var release Release
	path := fmt.Sprintf("/repos/%s/%s/releases/latest", owner, repo)
	if err := client.get(ctx, path, &release); err != nil {
		return nil, fmt.Errorf("getting latest release of %s/%s: %w", owner, repo, err)
	}
	return &release, nil
}
