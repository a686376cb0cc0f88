// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// The fedpak command is a desktop package helper for Fedora-family
// systems: Flatpak updates, DEB/TGZ to RPM conversion, Proton-GE
// changelogs, and the operation logs behind all of it.
//
// "fedpak ui" opens the tabbed terminal interface; update, convert,
// proton, logs, and config are headless equivalents for scripts and
// cron. Run "fedpak --help" for the full tree.
package main
