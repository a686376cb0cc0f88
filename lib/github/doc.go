// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package github provides a typed, read-only client for the GitHub
// REST API, scoped to what fedpak needs: listing the releases of a
// repository and fetching a single release by tag.
//
// The client works anonymously by default; an optional bearer token
// raises GitHub's rate limit from 60 to 5000 requests per hour. It
// handles rate limiting (X-RateLimit-* headers with automatic
// backoff), pagination (RFC 5988 Link headers), conditional requests
// (ETags), and structured error mapping.
//
// All requests are made over HTTPS. The client refuses non-HTTPS base URLs.
package github
