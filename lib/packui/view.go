// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package packui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// tabDefs orders the tab bar. Labels carry the number key that
// activates them.
var tabDefs = []struct {
	label string
	tab   Tab
}{
	{"1:Updates", TabUpdates},
	{"2:Proton", TabProton},
	{"3:Convert", TabConvert},
	{"4:Logs", TabLogs},
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "starting…"
	}

	var top string
	if model.filter.Active {
		top = model.filter.View(model.theme, model.width)
	} else {
		top = model.renderTabBar()
	}

	height := model.contentHeight()
	var content string
	switch model.activeTab {
	case TabUpdates:
		content = model.renderUpdatesTab(model.width, height)
	case TabProton:
		content = model.renderProtonTab(model.width, height)
	case TabConvert:
		content = model.renderConvertTab(model.width, height)
	case TabLogs:
		content = model.renderLogsTab(model.width, height)
	}

	return top + "\n" + content + "\n" + model.renderFooter() + "\n" + model.renderHelp()
}

// renderTabBar draws the btop-style tab line: separator runs between
// tab labels, with the running operation surfaced on the right.
func (model Model) renderTabBar() string {
	sepStyle := lipgloss.NewStyle().Foreground(model.theme.BorderColor)
	sep := sepStyle.Render("─")

	var builder strings.Builder
	builder.WriteString(sep + sep + sep)
	cursor := 3

	for index, def := range tabDefs {
		builder.WriteString(" ")
		cursor++

		style := lipgloss.NewStyle().Foreground(model.theme.TabInactiveForeground)
		if def.tab == model.activeTab {
			style = lipgloss.NewStyle().Bold(true).Foreground(model.theme.TabActiveForeground)
			if model.theme.TabActiveBackground != "" {
				style = style.Background(model.theme.TabActiveBackground)
			}
		}
		builder.WriteString(style.Render(def.label))
		cursor += len(def.label)

		builder.WriteString(" ")
		cursor++
		if index < len(tabDefs)-1 {
			builder.WriteString(sep + sep + sep)
			cursor += 3
		} else {
			builder.WriteString(sep)
			cursor++
		}
	}

	// Right side: the running operation, so it stays visible while
	// the user browses other tabs.
	right := ""
	rightWidth := 0
	if model.running != nil {
		text := model.spin.View() + " " + ansi.Truncate(model.running.label, 32, "…")
		right = " " + lipgloss.NewStyle().Foreground(model.theme.Running).Render(text) + " " + sep
		rightWidth = ansi.StringWidth(text) + 3
	}

	fill := model.width - cursor - rightWidth
	if fill < 1 {
		fill = 1
	}
	builder.WriteString(sepStyle.Render(strings.Repeat("─", fill)))
	builder.WriteString(right)
	return builder.String()
}

// computeTabHitRanges mirrors renderTabBar's cursor arithmetic so
// mouse clicks on the header land on the right tab.
func (model *Model) computeTabHitRanges() {
	model.tabHitRanges = model.tabHitRanges[:0]
	cursor := 3
	for index, def := range tabDefs {
		cursor++ // Leading space.
		labelStart := cursor
		cursor += len(def.label)
		model.tabHitRanges = append(model.tabHitRanges, tabHitRange{
			startX: labelStart,
			endX:   cursor,
			tab:    def.tab,
		})
		cursor++ // Trailing space.
		if index < len(tabDefs)-1 {
			cursor += 3
		} else {
			cursor++
		}
	}
}

// renderFooter draws the bottom rule with the active tab's counts and
// the version embedded on the right.
func (model Model) renderFooter() string {
	stats := model.footerStats()
	if stats != "" {
		stats += " · "
	}
	stats += "fedpak " + model.version

	sepStyle := lipgloss.NewStyle().Foreground(model.theme.BorderColor)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	fill := model.width - ansi.StringWidth(stats) - 4
	if fill < 1 {
		fill = 1
	}
	return sepStyle.Render(strings.Repeat("─", fill)) +
		" " + faint.Render(stats) + " " + sepStyle.Render("──")
}

// footerStats returns the active tab's count line.
func (model Model) footerStats() string {
	switch model.activeTab {
	case TabUpdates:
		stats := fmt.Sprintf("%d apps", len(model.visibleApps))
		if selected := len(model.selected); selected > 0 {
			stats += fmt.Sprintf(" · %d selected", selected)
		}
		return stats
	case TabProton:
		stats := fmt.Sprintf("%d releases", model.releaseCount())
		if model.feed != nil && model.feed.Offline {
			stats += " · offline"
		}
		return stats
	case TabLogs:
		return fmt.Sprintf("%d logs", len(model.visibleLogs))
	}
	return ""
}

// renderHelp draws the help line, or the status notice while one is
// up.
func (model Model) renderHelp() string {
	if model.status != "" {
		color := model.theme.NormalText
		if model.statusIsWarning {
			color = model.theme.Warning
		}
		return " " + lipgloss.NewStyle().Foreground(color).Render(ansi.Truncate(model.status, model.width-2, "…"))
	}

	var hints string
	switch {
	case model.focusRegion == FocusFilter:
		hints = "esc clear · enter done"
	case model.focusRegion == FocusPath:
		hints = "esc done · enter convert"
	case model.activeTab == TabLogs && model.logViewOpen:
		hints = "j/k scroll · g/G top/bottom · esc close"
	case model.activeTab == TabUpdates:
		hints = "space select · u update · / filter · r reload · 1-4 tabs · q quit"
	case model.activeTab == TabProton:
		hints = "enter notes · tab focus · [/] split · r refresh · 1-4 tabs · q quit"
	case model.activeTab == TabConvert:
		hints = "b browse · e edit path · enter convert · 1-4 tabs · q quit"
	case model.activeTab == TabLogs:
		hints = "enter open · / filter · r reload · 1-4 tabs · q quit"
	}
	helpStyle := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	return " " + helpStyle.Render(ansi.Truncate(hints, model.width-2, "…"))
}
