// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides shared terminal rendering components for
// fedpak's interactive interface: a markdown renderer for release
// changelogs, fzf-backed fuzzy matching with match-position
// highlighting, a proportional scrollbar, and change-flash tracking
// for rows touched by a finished operation.
//
// The package is deliberately free of application state. It renders
// strings from values; the bubbletea model in lib/packui owns layout,
// focus, and input routing. Colors come from lib/theme so every
// component follows the active theme.
package tui
