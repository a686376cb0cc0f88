// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package packui

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/fedpak-project/fedpak/lib/oplog"
	"github.com/fedpak-project/fedpak/lib/tui"
)

// handleLogsKeys processes keys while the Logs tab is active.
func (model Model) handleLogsKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.logViewOpen {
		model.handleViewportNav(message, &model.logView)
		return model, nil
	}
	if model.handleListNav(message, &model.logsList, len(model.visibleLogs)) {
		return model, nil
	}
	if key.Matches(message, model.keys.Confirm) {
		if entry, ok := model.logUnderCursor(); ok {
			return model, loadLogContent(entry.Path)
		}
	}
	return model, nil
}

// logUnderCursor returns the log entry at the cursor, if any.
func (model Model) logUnderCursor() (oplog.Entry, bool) {
	if model.logsList.cursor < 0 || model.logsList.cursor >= len(model.visibleLogs) {
		return oplog.Entry{}, false
	}
	return model.visibleLogs[model.logsList.cursor], true
}

// rebuildVisibleLogs re-derives the filtered log list.
func (model *Model) rebuildVisibleLogs() {
	matches := model.filter.ApplyLogs(model.logEntries, model.slab)
	model.visibleLogs = model.visibleLogs[:0]
	for _, match := range matches {
		model.visibleLogs = append(model.visibleLogs, match.Entry)
	}
	model.logsList.clamp(len(model.visibleLogs))
	model.logsList.ensureVisible(model.contentHeight(), len(model.visibleLogs))
}

// openLogView shows one log's content in the full-width viewer.
func (model *Model) openLogView(path, content string) {
	model.logViewPath = path
	model.logView.SetContent(content)
	model.logView.GotoTop()
	model.logViewOpen = true
	model.focusRegion = FocusDetail
}

// closeLogView returns to the log list.
func (model *Model) closeLogView() {
	model.logViewOpen = false
	model.logViewPath = ""
	model.logView.SetContent("")
	model.focusRegion = FocusList
}

// Column widths for the log list.
const (
	logResultWidth = 8
	logAgeWidth    = 16
	logSizeWidth   = 10
)

// renderLogsTab renders the log list, or the open log viewer.
func (model Model) renderLogsTab(width, height int) string {
	if model.logViewOpen {
		return model.renderLogView(width, height)
	}

	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	if model.logsError != "" {
		errorStyle := lipgloss.NewStyle().Foreground(model.theme.Failure)
		return padPane([]string{"", errorStyle.Render("   "+model.logsError)}, height)
	}
	if len(model.visibleLogs) == 0 {
		text := "   no operations logged yet"
		if model.filter.Input != "" {
			text = "   no logs match the filter"
		}
		return padPane([]string{"", faint.Render(text)}, height)
	}

	rowWidth := width - 1
	now := model.clock.Now()
	rows := make([]string, 0, height)
	end := model.logsList.scroll + height
	if end > len(model.visibleLogs) {
		end = len(model.visibleLogs)
	}
	for index := model.logsList.scroll; index < end; index++ {
		rows = append(rows, model.renderLogRow(model.visibleLogs[index], index, rowWidth, now))
	}
	for len(rows) < height {
		rows = append(rows, lipgloss.NewStyle().Width(rowWidth).Render(""))
	}

	content := lipgloss.NewStyle().Width(rowWidth).Height(height).Render(strings.Join(rows, "\n"))
	scrollbar := tui.RenderScrollbar(model.theme, height, len(model.visibleLogs), height, model.logsList.scroll, model.focusRegion == FocusList)
	return lipgloss.JoinHorizontal(lipgloss.Top, content, scrollbar)
}

// renderLogRow renders one log entry: result, operation, age, size.
func (model Model) renderLogRow(entry oplog.Entry, index, rowWidth int, now time.Time) string {
	isCursor := index == model.logsList.cursor

	marker := "  "
	if isCursor {
		marker = "> "
	}
	result := "SUCCESS"
	if !entry.Success {
		result = "FAILED"
	}
	operationWidth := rowWidth - len(marker) - logResultWidth - logAgeWidth - logSizeWidth - 2
	if operationWidth < 8 {
		operationWidth = 8
	}
	operationName := ansi.Truncate(entry.Operation, operationWidth, "…")
	age := ansi.Truncate(humanize.RelTime(entry.Timestamp, now, "ago", "from now"), logAgeWidth, "…")
	size := humanize.Bytes(uint64(entry.Size))

	plain := marker + padCell(result, logResultWidth) + padCell(operationName, operationWidth) + " " +
		padCell(age, logAgeWidth) + " " + size

	if isCursor {
		return lipgloss.NewStyle().
			Background(model.theme.SelectedBackground).
			Foreground(model.theme.SelectedForeground).
			Width(rowWidth).MaxWidth(rowWidth).
			Render(plain)
	}

	if heat := model.heat.Heat(entry.Path, now); heat > 0 {
		background := model.theme.HotSuccessBackground
		if model.heat.Kind(entry.Path) == tui.HeatFailure {
			background = model.theme.HotFailureBackground
		}
		return lipgloss.NewStyle().
			Background(background).
			Width(rowWidth).MaxWidth(rowWidth).
			Render(plain)
	}

	resultColor := model.theme.ResultColor(entry.Success)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	normal := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	return marker + lipgloss.NewStyle().Foreground(resultColor).Render(padCell(result, logResultWidth)) +
		normal.Render(padCell(operationName, operationWidth)) + " " +
		faint.Render(padCell(age, logAgeWidth)) + " " + faint.Render(size)
}

// renderLogView renders the open log's content with a header naming
// the file.
func (model Model) renderLogView(width, height int) string {
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	header := " " + lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true).
		Render(ansi.Truncate(filepath.Base(model.logViewPath), width-20, "…")) +
		faint.Render("  esc to close")
	rule := lipgloss.NewStyle().Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", max(width, 0)))

	body := lipgloss.NewStyle().PaddingLeft(1).Render(model.logView.View())
	scrollbar := tui.RenderScrollbar(model.theme, model.logView.Height,
		model.logView.TotalLineCount(), model.logView.Height,
		model.logView.YOffset, true)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		rule,
		lipgloss.JoinHorizontal(lipgloss.Top, body, scrollbar),
	)
}
