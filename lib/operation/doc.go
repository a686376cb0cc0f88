// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package operation implements the streaming execution engine behind
// every package operation fedpak performs: Flatpak updates and DEB/TGZ
// to RPM conversions. It spawns the external tool, merges its stdout
// and stderr line-by-line into a transcript while the tool still runs,
// classifies the output, and resolves exactly one terminal Outcome per
// request.
//
// The engine decomposes into:
//
//   - [Runner]: spawns a child with both streams piped, reads them
//     concurrently line-buffered, and reports the exit status only
//     after both streams reach EOF. Lines that are empty after
//     trimming are dropped; everything else is preserved verbatim.
//   - [Classify]: pure, case-insensitive pattern matching over
//     transcript lines. Detects completion keywords, identifies the
//     package currently being processed, distinguishes "nothing to do"
//     from failure on non-zero exit, and extracts the produced RPM
//     filename on conversion output. All output string matching lives
//     here so a future switch to structured progress is a single-file
//     change.
//   - [Run]: the coordinator. Builds the command line for the request,
//     streams progress events to an observer channel while the child
//     runs, maps the exit code, locates and relocates the conversion
//     artifact, writes the operation log, and delivers the Outcome.
//
// Data flow for one request:
//
//	[Request] -> Run -> Runner -> merged line channel
//	                      |            |
//	                      |       classify incrementally
//	                      |            |
//	                      |       [Event] channel -> UI / CLI observer
//	                      v
//	                  exit code -> Outcome assembly
//	                                   |
//	             (conversions: locate RPM, relocate, checksum)
//	                                   |
//	                         operation log write
//	                                   |
//	                       terminal [Outcome] event, channel close
//
// Ordering guarantees: progress events respect per-stream arrival
// order; the Outcome is delivered strictly after the last progress
// event; the log write happens-before Outcome delivery. Dismissing the
// observer never signals the child — package operations run to natural
// completion because a half-applied package transaction is worse than
// an orphaned process.
package operation
