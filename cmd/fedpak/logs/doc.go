// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package logs implements "fedpak logs": operation log listing,
// display, and pruning (zstd compression of aged logs, archive
// expiry).
package logs
