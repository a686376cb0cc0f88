// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package convert implements "fedpak convert": headless DEB/TGZ to
// RPM conversion through the privilege helper, with artifact
// location, drift relocation, and checksum reporting.
package convert
