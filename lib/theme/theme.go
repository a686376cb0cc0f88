// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for fedpak's terminal interface.
// All colors use lipgloss ANSI 256-color codes for broad terminal
// compatibility; user theme files may also use #rrggbb hex.
//
// The fields cover universal chrome (text, selection, borders, tab
// bar) and the semantic states that recur across tabs: an operation
// succeeds, does nothing, fails, or is still running.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color `json:"normal_text"`
	FaintText  lipgloss.Color `json:"faint_text"`

	// Selected row.
	SelectedBackground lipgloss.Color `json:"selected_background"`
	SelectedForeground lipgloss.Color `json:"selected_foreground"`

	// Tab bar.
	TabActiveForeground   lipgloss.Color `json:"tab_active_foreground"`
	TabActiveBackground   lipgloss.Color `json:"tab_active_background"`
	TabInactiveForeground lipgloss.Color `json:"tab_inactive_foreground"`

	// Operation states.
	Success lipgloss.Color `json:"success"`
	Failure lipgloss.Color `json:"failure"`
	NoOp    lipgloss.Color `json:"noop"`
	Running lipgloss.Color `json:"running"`
	Warning lipgloss.Color `json:"warning"`

	// UI chrome.
	HeaderForeground lipgloss.Color `json:"header_foreground"`
	BorderColor      lipgloss.Color `json:"border_color"`
	HelpText         lipgloss.Color `json:"help_text"`
	Accent           lipgloss.Color `json:"accent"`

	// Fuzzy filter match highlighting.
	MatchForeground lipgloss.Color `json:"match_foreground"`

	// Flash tints: background for rows a just-finished operation
	// touched, fading over a few seconds.
	HotSuccessBackground lipgloss.Color `json:"hot_success_background"`
	HotFailureBackground lipgloss.Color `json:"hot_failure_background"`

	// Inline links in rendered changelogs.
	LinkForeground lipgloss.Color `json:"link_foreground"`

	// ChromaStyle names the chroma syntax-highlighting style for
	// fenced code in changelogs. Not a color: any style name chroma
	// ships, for example "monokai" or "friendly".
	ChromaStyle string `json:"chroma_style"`
}

// ResultColor returns Success or Failure for a recorded operation
// result. The logs tab uses it for the SUCCESS/FAILED column.
func (theme Theme) ResultColor(success bool) lipgloss.Color {
	if success {
		return theme.Success
	}
	return theme.Failure
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed
// for 256-color terminals with a dark background, the common case for
// the distributions fedpak targets.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	TabActiveForeground:   lipgloss.Color("255"),
	TabActiveBackground:   lipgloss.Color("25"), // deep blue
	TabInactiveForeground: lipgloss.Color("245"),

	Success: lipgloss.Color("114"), // green
	Failure: lipgloss.Color("196"), // bright red
	NoOp:    lipgloss.Color("245"), // gray: nothing happened, nothing to shout about
	Running: lipgloss.Color("220"), // yellow/amber
	Warning: lipgloss.Color("208"), // orange

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	Accent:           lipgloss.Color("75"), // blue

	MatchForeground: lipgloss.Color("215"), // light orange, pops against 252 text

	HotSuccessBackground: lipgloss.Color("22"), // dark green tint
	HotFailureBackground: lipgloss.Color("52"), // dark red tint

	LinkForeground: lipgloss.Color("75"), // blue, matches Accent

	ChromaStyle: "monokai",
}

// LightTheme is the built-in scheme for light-background terminals.
var LightTheme = Theme{
	NormalText: lipgloss.Color("235"),
	FaintText:  lipgloss.Color("244"),

	SelectedBackground: lipgloss.Color("189"), // pale lavender
	SelectedForeground: lipgloss.Color("16"),

	TabActiveForeground:   lipgloss.Color("231"),
	TabActiveBackground:   lipgloss.Color("25"), // deep blue
	TabInactiveForeground: lipgloss.Color("243"),

	Success: lipgloss.Color("28"),  // dark green
	Failure: lipgloss.Color("124"), // dark red
	NoOp:    lipgloss.Color("244"), // gray
	Running: lipgloss.Color("130"), // dark amber
	Warning: lipgloss.Color("166"), // burnt orange

	HeaderForeground: lipgloss.Color("16"),
	BorderColor:      lipgloss.Color("250"),
	HelpText:         lipgloss.Color("245"),
	Accent:           lipgloss.Color("26"), // blue

	MatchForeground: lipgloss.Color("166"), // burnt orange

	HotSuccessBackground: lipgloss.Color("194"), // pale green tint
	HotFailureBackground: lipgloss.Color("224"), // pale red tint

	LinkForeground: lipgloss.Color("26"), // blue, matches Accent

	ChromaStyle: "friendly",
}

// ContrastTheme is the built-in high-contrast scheme: pure whites and
// saturated state colors on a dark background, with a yellow-on-black
// selection in the classic accessibility style.
var ContrastTheme = Theme{
	NormalText: lipgloss.Color("231"), // pure white
	FaintText:  lipgloss.Color("250"),

	SelectedBackground: lipgloss.Color("226"), // yellow
	SelectedForeground: lipgloss.Color("16"),  // black

	TabActiveForeground:   lipgloss.Color("16"),
	TabActiveBackground:   lipgloss.Color("226"), // yellow
	TabInactiveForeground: lipgloss.Color("250"),

	Success: lipgloss.Color("46"),  // pure green
	Failure: lipgloss.Color("196"), // pure red
	NoOp:    lipgloss.Color("252"),
	Running: lipgloss.Color("226"), // yellow
	Warning: lipgloss.Color("214"), // bright orange

	HeaderForeground: lipgloss.Color("231"),
	BorderColor:      lipgloss.Color("252"),
	HelpText:         lipgloss.Color("252"),
	Accent:           lipgloss.Color("51"), // cyan

	MatchForeground: lipgloss.Color("226"), // yellow

	HotSuccessBackground: lipgloss.Color("22"), // dark green tint
	HotFailureBackground: lipgloss.Color("52"), // dark red tint

	LinkForeground: lipgloss.Color("51"), // cyan, matches Accent

	ChromaStyle: "monokai",
}

// builtins maps theme names to the compiled-in palettes. Order in
// BuiltinNames is presentation order for `fedpak config show`.
var builtins = map[string]Theme{
	"default":  DefaultTheme,
	"light":    LightTheme,
	"contrast": ContrastTheme,
}

// BuiltinNames returns the built-in theme names in presentation order.
func BuiltinNames() []string {
	return []string{"default", "light", "contrast"}
}

// Builtin returns the named built-in theme.
func Builtin(name string) (Theme, bool) {
	theme, ok := builtins[name]
	return theme, ok
}
