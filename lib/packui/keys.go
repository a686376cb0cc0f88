// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package packui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the interface.
type KeyMap struct {
	// Navigation (context-sensitive: list movement or changelog/log
	// scrolling depending on current focus).
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Focus switching between the list and detail panes (Proton tab).
	FocusToggle key.Binding

	// Splitter resize (Proton tab).
	SplitGrow   key.Binding // Grow list pane (push changelog right).
	SplitShrink key.Binding // Shrink list pane (push changelog left).

	// Tab switching.
	TabUpdates key.Binding
	TabProton  key.Binding
	TabConvert key.Binding
	TabLogs    key.Binding

	// Filter (Updates and Logs tabs).
	FilterActivate key.Binding // Enter filter mode.
	FilterClear    key.Binding // Clear filter / dismiss panes.

	// Actions.
	Select  key.Binding // Toggle app selection (Updates tab).
	Update  key.Binding // Update selection, or everything (Updates tab).
	Refresh key.Binding // Reload the active tab's data.
	Browse  key.Binding // Open the graphical file picker (Convert tab).
	Edit    key.Binding // Focus the path input (Convert tab).
	Confirm key.Binding // Run conversion / open log / show release.

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (j/k) alongside standard arrow keys and page up/down.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	FocusToggle: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "switch pane"),
	),
	SplitGrow: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "grow list"),
	),
	SplitShrink: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "shrink list"),
	),
	TabUpdates: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "updates"),
	),
	TabProton: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "proton"),
	),
	TabConvert: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "convert"),
	),
	TabLogs: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "logs"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	FilterClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear"),
	),
	Select: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("Space", "select"),
	),
	Update: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "update"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Browse: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "browse"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit path"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "confirm"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
