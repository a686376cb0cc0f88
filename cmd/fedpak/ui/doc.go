// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package ui implements "fedpak ui": the full-screen tabbed terminal
// interface. The command wires the application model in lib/packui to
// its production dependencies — Flatpak inventory, Proton-GE release
// fetcher, the operation engine, the graphical file picker — from the
// settings file, then hands the terminal to bubbletea.
package ui
