// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for the fedpak
// command. These functions centralize the one legitimate raw I/O
// pattern that exists before the structured logger: fatal error
// reporting to stderr from main(), where the logger may not be
// initialized (flag parsing, config load) or where the terminal is
// owned by the full-screen UI and the structured log writes to a file.
package process
