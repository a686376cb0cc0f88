// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package packui

import (
	"path/filepath"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/util"

	"github.com/fedpak-project/fedpak/lib/flatpak"
	"github.com/fedpak-project/fedpak/lib/oplog"
	"github.com/fedpak-project/fedpak/lib/theme"
	"github.com/fedpak-project/fedpak/lib/tui"
)

// FilterModel is the fuzzy filter over the Updates and Logs lists.
// The filter composes with tabs: the tab chooses the base list, the
// filter narrows it client-side and reorders it by match score.
type FilterModel struct {
	// Input is the current filter query text.
	Input string

	// Active is true when the filter input has keyboard focus
	// (the user pressed / to start typing).
	Active bool
}

// HandleRune processes a character typed while the filter is active.
// Returns true if the input changed.
func (filter *FilterModel) HandleRune(character rune) bool {
	filter.Input += string(character)
	return true
}

// HandleBackspace removes the last character from the filter input.
// Returns true if the input changed.
func (filter *FilterModel) HandleBackspace() bool {
	if len(filter.Input) == 0 {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear resets the filter input and deactivates it.
func (filter *FilterModel) Clear() {
	filter.Input = ""
	filter.Active = false
}

// View renders the filter bar. When active, shows the input with a
// cursor. When inactive with text, shows the filter text. When
// inactive with no text, returns empty string (hidden).
func (filter *FilterModel) View(th theme.Theme, width int) string {
	if !filter.Active && filter.Input == "" {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(th.NormalText).
		Width(width)

	if filter.Active {
		cursor := lipgloss.NewStyle().
			Foreground(th.HeaderForeground).
			Bold(true).
			Render("▎")
		return style.Render(" / " + filter.Input + cursor)
	}

	// Inactive but has text — show the filter as a subtle indicator.
	dimStyle := lipgloss.NewStyle().
		Foreground(th.FaintText).
		Width(width)
	return dimStyle.Render(" filter: " + filter.Input)
}

// AppMatch is one application that survived the filter, with its
// score and the rune positions that matched inside the display name.
type AppMatch struct {
	App           flatpak.App
	Score         int
	NamePositions []int
}

// ApplyApps filters applications by fuzzy-matching the query against
// the display name, the application ID, and the origin remote. The
// best field score ranks the result; name match positions are kept
// for highlighting. An empty filter returns everything unscored, in
// the original order.
func (filter *FilterModel) ApplyApps(apps []flatpak.App, slab *util.Slab) []AppMatch {
	if filter.Input == "" {
		results := make([]AppMatch, len(apps))
		for index, app := range apps {
			results[index] = AppMatch{App: app}
		}
		return results
	}

	pattern := []rune(filter.Input)
	var results []AppMatch
	for _, app := range apps {
		name := tui.FuzzyMatch(app.Name, pattern, slab)
		id := tui.FuzzyMatch(app.ID, pattern, slab)
		origin := tui.FuzzyMatch(app.Origin, pattern, slab)

		best := max(name.Score, id.Score, origin.Score)
		if best <= 0 {
			continue
		}
		match := AppMatch{App: app, Score: best}
		if name.Score > 0 {
			match.NamePositions = name.Positions
		}
		results = append(results, match)
	}

	slices.SortStableFunc(results, func(a, b AppMatch) int {
		return b.Score - a.Score
	})
	return results
}

// LogMatch is one log entry that survived the filter.
type LogMatch struct {
	Entry oplog.Entry
	Score int
}

// ApplyLogs filters log entries by fuzzy-matching the query against
// the operation kind, the filename, and the recorded result word
// ("success" or "failed") — so typing "failed" surfaces exactly the
// operations that went wrong.
func (filter *FilterModel) ApplyLogs(entries []oplog.Entry, slab *util.Slab) []LogMatch {
	if filter.Input == "" {
		results := make([]LogMatch, len(entries))
		for index, entry := range entries {
			results[index] = LogMatch{Entry: entry}
		}
		return results
	}

	pattern := []rune(filter.Input)
	var results []LogMatch
	for _, entry := range entries {
		resultWord := "success"
		if !entry.Success {
			resultWord = "failed"
		}

		operation := tui.FuzzyMatch(entry.Operation, pattern, slab)
		name := tui.FuzzyMatch(filepath.Base(entry.Path), pattern, slab)
		result := tui.FuzzyMatch(resultWord, pattern, slab)

		best := max(operation.Score, name.Score, result.Score)
		if best <= 0 {
			continue
		}
		results = append(results, LogMatch{Entry: entry, Score: best})
	}

	slices.SortStableFunc(results, func(a, b LogMatch) int {
		return b.Score - a.Score
	})
	return results
}
