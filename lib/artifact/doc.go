// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package artifact finds, verifies, and relocates the RPM files that
// package conversions produce.
//
// A conversion runs alien under the privilege helper inside a shell
// envelope that first changes to the requested directory and echoes
// `pwd`. On some distributions the helper's policy resets the working
// directory despite the explicit cd, so the RPM lands in the helper's
// default directory (typically root's home) instead of next to the
// source package. The pwd echo makes that drift detectable instead of
// hidden:
//
//   - [Locator] parses the echo, builds the candidate directory set,
//     probes the filename the tool announced, and falls back to
//     recency-filtered discovery (newest .rpm modified inside the
//     last two minutes).
//   - [Relocator] moves a drifted RPM back into the requested
//     directory, privileged only when the destination actually
//     requires it.
//   - [Checksum] computes the BLAKE3 digest recorded alongside the
//     artifact in the operation log.
package artifact
