// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML settings loading for fedpak.
//
// Settings live in a single file at $XDG_CONFIG_HOME/fedpak/config.yaml
// (or ~/.config/fedpak/config.yaml), overridable with the FEDPAK_CONFIG
// environment variable or a --config flag. A missing file at the
// standard location is fine: the defaults describe a complete working
// setup, and fedpak is expected to run on a fresh machine with no
// settings at all.
//
// Loading is layered. [Default] supplies the base, the file merges over
// it (absent keys keep defaults), individual FEDPAK_* environment
// variables override fields from the file, and ${VAR} / ${VAR:-default}
// patterns in path fields are expanded last. [Config.Validate] reports
// every problem in one joined error; [Config.EnsurePaths] creates the
// configured directories idempotently.
//
// The GitHub token is deliberately not a settings field. It comes from
// FEDPAK_GITHUB_TOKEN or the sealed token file managed by lib/sealed,
// so the plaintext never sits in config.yaml.
//
// Key exports:
//
//   - [Config] -- master struct with Tools, Paths, UI, GitHub, Logging
//   - [Default] -- returns a Config that works with no settings file
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [ResolveTool] -- PATH resolution for configured tool binaries
//
// This package depends on no other fedpak packages.
package config
