// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"io"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// highlightStyles builds base and match styles on a forced ANSI256
// profile so rendering is deterministic without a TTY.
func highlightStyles() (lipgloss.Style, lipgloss.Style) {
	renderer := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.ANSI256))
	renderer.SetColorProfile(termenv.ANSI256)
	base := renderer.NewStyle().Foreground(lipgloss.Color("252"))
	match := renderer.NewStyle().Foreground(lipgloss.Color("215")).Bold(true)
	return base, match
}

func TestHighlightMatchesNoPositions(t *testing.T) {
	base, match := highlightStyles()
	result := HighlightMatches("org.mozilla.firefox", nil, base, match)
	if result != base.Render("org.mozilla.firefox") {
		t.Errorf("expected plain base rendering with no positions, got %q", result)
	}
}

func TestHighlightMatchesVisibleTextUnchanged(t *testing.T) {
	base, match := highlightStyles()
	text := "com.valvesoftware.Steam"
	result := HighlightMatches(text, []int{0, 4, 18}, base, match)
	if ansi.Strip(result) != text {
		t.Errorf("highlighting changed visible text: %q", ansi.Strip(result))
	}
}

func TestHighlightMatchesBatchesRuns(t *testing.T) {
	base, match := highlightStyles()

	// Three consecutive matched runes render as one styled chunk.
	result := HighlightMatches("abcdef", []int{0, 1, 2}, base, match)
	want := match.Render("abc") + base.Render("def")
	if result != want {
		t.Errorf("HighlightMatches = %q, want %q", result, want)
	}
}

func TestHighlightMatchesTrailingRun(t *testing.T) {
	base, match := highlightStyles()
	result := HighlightMatches("abcdef", []int{5}, base, match)
	want := base.Render("abcde") + match.Render("f")
	if result != want {
		t.Errorf("HighlightMatches = %q, want %q", result, want)
	}
}

func TestHighlightMatchesRuneIndexed(t *testing.T) {
	base, match := highlightStyles()

	// Position 1 is the é rune, not its second byte.
	result := HighlightMatches("héllo", []int{1}, base, match)
	want := base.Render("h") + match.Render("é") + base.Render("llo")
	if result != want {
		t.Errorf("HighlightMatches = %q, want %q", result, want)
	}
}
