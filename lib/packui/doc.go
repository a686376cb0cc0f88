// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

// Package packui implements the fedpak terminal interface: a tabbed
// bubbletea program over the operation engine.
//
// Four tabs — Updates, Proton, Convert, Logs — share one chrome
// layout: a tab bar (replaced by the filter bar while filtering), the
// tab's content area, a footer rule carrying per-tab counts and the
// version, and a help bar. Number keys and tab-bar clicks switch tabs.
//
// Operations are single-flight. Starting one hands a request to the
// [Runner], whose events stream back through a re-armed listen
// command; while it runs, the originating tab shows a progress pane
// (spinner, current target, transcript tail) and attempts to start
// another operation are refused with a status notice. The terminal
// outcome replaces the progress pane until dismissed.
//
// The model talks to the rest of fedpak through small interfaces
// ([AppLister], [ReleaseSource], [Runner], [Picker]) so tests drive it
// with fakes and cmd/fedpak wires the production implementations.
package packui
