// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package oplog persists one structured log file per completed
// package operation and manages the accumulated files.
//
// The [Writer] writes a fixed template — header line, timestamp,
// target, optional remote, SUCCESS/FAILED status, then the full
// transcript between delimiters — once and atomically (temp file +
// rename), never streamed. Files live under the user state directory
// (XDG_STATE_HOME, defaulting to ~/.local/state) as
// fedpak_<operation>_<YYYY-MM-DD_HH-MM-SS>.log. The write completes
// before the operation's outcome reaches the UI, so a crashed or
// closed UI never loses the post-mortem record.
//
// [List] and [Read] back the logs tab and the logs subcommand.
// [Pruner] compresses aged logs with zstd and removes expired
// archives, keeping the newest files untouched.
package oplog
