// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package configcmd implements "fedpak config": settings template
// generation, effective-settings display, and the sealed GitHub token
// lifecycle (set, clear).
//
// The package is named configcmd rather than config to keep imports
// of lib/config readable inside it.
package configcmd
