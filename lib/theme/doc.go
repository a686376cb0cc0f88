// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package theme provides color themes for fedpak's terminal interface.
//
// Three themes are built in: default (dark terminals), light, and
// contrast (high contrast on dark). User themes are JSONC files in
// $XDG_CONFIG_HOME/fedpak/themes (JSON extended with comments and
// trailing commas), named by filename: themes/solar.jsonc is selected
// as "solar" in the settings or with FEDPAK_THEME. A user theme names
// a built-in base and overrides any subset of its colors; unknown
// fields and malformed colors are errors, not silent no-ops, so typos
// surface immediately. Built-in names shadow user files.
//
// All colors are lipgloss ANSI 256-color indexes or #rrggbb hex. The
// interface forces an ANSI-256 profile when rendering, so palette
// indexes display consistently.
package theme
