// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package packui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/fedpak-project/fedpak/lib/flatpak"
	"github.com/fedpak-project/fedpak/lib/operation"
	"github.com/fedpak-project/fedpak/lib/tui"
)

// handleUpdatesKeys processes keys while the Updates tab is active.
func (model Model) handleUpdatesKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.paneActive(TabUpdates) {
		return model, nil
	}
	if model.handleListNav(message, &model.appsList, len(model.visibleApps)) {
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.Select):
		if app, ok := model.appUnderCursor(); ok {
			if model.selected[app.ID] {
				delete(model.selected, app.ID)
			} else {
				model.selected[app.ID] = true
			}
			model.appsList.move(1, len(model.visibleApps))
			model.appsList.ensureVisible(model.contentHeight(), len(model.visibleApps))
		}

	case key.Matches(message, model.keys.Update):
		return model.startUpdate()
	}
	return model, nil
}

// appUnderCursor returns the app at the cursor, if any.
func (model Model) appUnderCursor() (flatpak.App, bool) {
	if model.appsList.cursor < 0 || model.appsList.cursor >= len(model.visibleApps) {
		return flatpak.App{}, false
	}
	return model.visibleApps[model.appsList.cursor], true
}

// startUpdate launches a Flatpak update for the selection, or for
// everything when nothing is selected. The full inventory rides along
// as targets so progress lines attribute to the right application.
func (model Model) startUpdate() (tea.Model, tea.Cmd) {
	var ids []string
	for _, app := range model.installed {
		if model.selected[app.ID] {
			ids = append(ids, app.ID)
		}
	}

	label := "update all applications"
	switch len(ids) {
	case 0:
	case 1:
		label = "update " + model.appName(ids[0])
	default:
		label = fmt.Sprintf("update %d applications", len(ids))
	}

	request := operation.Request{
		Kind:   operation.KindFlatpakUpdate,
		AppIDs: ids,
	}
	return model.startOperation(TabUpdates, request, label, flatpak.Targets(model.installed), ids)
}

// appName resolves an application ID to its display name, falling
// back to the ID itself.
func (model Model) appName(id string) string {
	for _, app := range model.installed {
		if app.ID == id {
			return app.Name
		}
	}
	return id
}

// pruneSelection drops selections for applications no longer in the
// inventory.
func (model *Model) pruneSelection() {
	present := make(map[string]bool, len(model.installed))
	for _, app := range model.installed {
		present[app.ID] = true
	}
	for id := range model.selected {
		if !present[id] {
			delete(model.selected, id)
		}
	}
}

// rebuildVisibleApps re-derives the filtered application list and the
// per-row name highlights.
func (model *Model) rebuildVisibleApps() {
	matches := model.filter.ApplyApps(model.installed, model.slab)
	model.visibleApps = model.visibleApps[:0]
	model.appHighlights = make(map[string][]int, len(matches))
	for _, match := range matches {
		model.visibleApps = append(model.visibleApps, match.App)
		if len(match.NamePositions) > 0 {
			model.appHighlights[match.App.ID] = match.NamePositions
		}
	}
	model.appsList.clamp(len(model.visibleApps))
	model.appsList.ensureVisible(model.contentHeight(), len(model.visibleApps))
}

// Column widths for the application list.
const (
	appVersionWidth = 14
	appOriginWidth  = 10
)

// renderUpdatesTab renders the application list, or the operation
// pane when an update owns the tab.
func (model Model) renderUpdatesTab(width, height int) string {
	if pane := model.renderOperationPane(width, height); pane != "" {
		return pane
	}

	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	if model.appsLoading {
		return padPane([]string{"", faint.Render("   loading applications…")}, height)
	}
	if model.appsError != "" {
		errorStyle := lipgloss.NewStyle().Foreground(model.theme.Failure)
		return padPane([]string{"", errorStyle.Render("   "+model.appsError)}, height)
	}
	if len(model.visibleApps) == 0 {
		text := "   no applications installed"
		if model.filter.Input != "" {
			text = "   no applications match the filter"
		}
		return padPane([]string{"", faint.Render(text)}, height)
	}

	rowWidth := width - 1
	rows := make([]string, 0, height)
	end := model.appsList.scroll + height
	if end > len(model.visibleApps) {
		end = len(model.visibleApps)
	}
	for index := model.appsList.scroll; index < end; index++ {
		rows = append(rows, model.renderAppRow(model.visibleApps[index], index, rowWidth))
	}
	for len(rows) < height {
		rows = append(rows, lipgloss.NewStyle().Width(rowWidth).Render(""))
	}

	content := lipgloss.NewStyle().Width(rowWidth).Height(height).Render(strings.Join(rows, "\n"))
	scrollbar := tui.RenderScrollbar(model.theme, height, len(model.visibleApps), height, model.appsList.scroll, model.focusRegion == FocusList)
	return lipgloss.JoinHorizontal(lipgloss.Top, content, scrollbar)
}

// renderAppRow renders one application row: cursor marker, selection
// checkbox, name, version, origin.
func (model Model) renderAppRow(app flatpak.App, index, rowWidth int) string {
	isCursor := index == model.appsList.cursor

	checkbox := "[ ] "
	if model.selected[app.ID] {
		checkbox = "[x] "
	}
	marker := "  "
	if isCursor {
		marker = "> "
	}

	nameWidth := rowWidth - len(marker) - len(checkbox) - appVersionWidth - appOriginWidth - 2
	if nameWidth < 8 {
		nameWidth = 8
	}
	name := ansi.Truncate(app.Name, nameWidth, "…")
	version := ansi.Truncate(app.Version, appVersionWidth, "…")
	origin := ansi.Truncate(app.Origin, appOriginWidth, "…")

	plain := marker + checkbox + padCell(name, nameWidth) + " " + padCell(version, appVersionWidth) + " " + origin

	if isCursor {
		return lipgloss.NewStyle().
			Background(model.theme.SelectedBackground).
			Foreground(model.theme.SelectedForeground).
			Width(rowWidth).MaxWidth(rowWidth).
			Render(plain)
	}

	if heat := model.heat.Heat(app.ID, model.clock.Now()); heat > 0 {
		background := model.theme.HotSuccessBackground
		if model.heat.Kind(app.ID) == tui.HeatFailure {
			background = model.theme.HotFailureBackground
		}
		return lipgloss.NewStyle().
			Background(background).
			Width(rowWidth).MaxWidth(rowWidth).
			Render(plain)
	}

	// Unselected row: style the pieces individually.
	normal := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	match := lipgloss.NewStyle().Foreground(model.theme.MatchForeground).Bold(true)

	checkboxStyled := faint.Render(checkbox)
	if model.selected[app.ID] {
		checkboxStyled = faint.Render("[") + lipgloss.NewStyle().Foreground(model.theme.Success).Render("x") + faint.Render("] ")
	}
	nameStyled := tui.HighlightMatches(name, model.appHighlights[app.ID], normal, match)
	if padding := nameWidth - ansi.StringWidth(name); padding > 0 {
		nameStyled += strings.Repeat(" ", padding)
	}

	return marker + checkboxStyled + nameStyled + " " +
		normal.Render(padCell(version, appVersionWidth)) + " " +
		faint.Render(origin)
}

// padCell right-pads text with spaces to target terminal cells.
func padCell(text string, target int) string {
	if padding := target - ansi.StringWidth(text); padding > 0 {
		return text + strings.Repeat(" ", padding)
	}
	return text
}
