// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package proton implements "fedpak proton": Proton-GE release
// listings and changelogs from the command line, backed by the same
// snapshot cache the interface uses.
package proton
