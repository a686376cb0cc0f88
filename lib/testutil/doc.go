// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for fedpak packages.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that individual
// tests do not need direct time.After calls. Operation tests lean on
// these: progress events and the terminal outcome both arrive on
// channels, and a stuck coordinator must fail the test rather than
// hang the suite.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
