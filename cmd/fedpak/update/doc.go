// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package update implements "fedpak update": headless Flatpak updates
// driving the operation engine end to end — spawn, stream, classify,
// log — with the transcript on stdout instead of a progress pane.
package update
