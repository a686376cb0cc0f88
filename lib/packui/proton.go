// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package packui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/fedpak-project/fedpak/lib/proton"
	"github.com/fedpak-project/fedpak/lib/tui"
)

// protonHeaderLines is the changelog pane's header: title line,
// tarball line, separator rule.
const protonHeaderLines = 3

// releaseCount returns the number of releases in the loaded feed.
func (model Model) releaseCount() int {
	if model.feed == nil {
		return 0
	}
	return len(model.feed.Releases)
}

// selectedRelease returns the release at the cursor, if any.
func (model Model) selectedRelease() (proton.Release, bool) {
	if model.feed == nil || model.protonList.cursor < 0 || model.protonList.cursor >= len(model.feed.Releases) {
		return proton.Release{}, false
	}
	return model.feed.Releases[model.protonList.cursor], true
}

// protonListWidth returns the release list's width under the current
// split ratio.
func (model Model) protonListWidth() int {
	width := int(float64(model.width) * model.splitRatio)
	if width < 20 {
		width = 20
	}
	if width > model.width-12 {
		width = model.width - 12
	}
	return width
}

// handleProtonKeys processes keys while the Proton tab is active.
func (model Model) handleProtonKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.focusRegion == FocusDetail {
		if model.handleViewportNav(message, &model.changelog) {
			return model, nil
		}
		return model, nil
	}
	if model.handleListNav(message, &model.protonList, model.releaseCount()) {
		model.syncChangelog()
		return model, nil
	}
	if key.Matches(message, model.keys.Confirm) {
		model.focusRegion = FocusDetail
	}
	return model, nil
}

// syncChangelog re-renders the changelog pane when the selected
// release changed, starting at the top of the new notes.
func (model *Model) syncChangelog() {
	release, ok := model.selectedRelease()
	if !ok {
		model.changelogTag = ""
		model.changelog.SetContent("")
		return
	}
	if release.Tag == model.changelogTag {
		return
	}
	model.changelogTag = release.Tag
	model.rerenderChangelog()
	model.changelog.GotoTop()
}

// rerenderChangelog renders the selected release's notes at the
// current pane width, keeping the scroll position in bounds. Called
// on selection change and on resize.
func (model *Model) rerenderChangelog() {
	release, ok := model.selectedRelease()
	if !ok || model.changelog.Width <= 0 {
		return
	}
	notes := release.Notes
	if strings.TrimSpace(notes) == "" {
		notes = "_No release notes._"
	}
	offset := model.changelog.YOffset
	model.changelog.SetContent(tui.RenderMarkdown(notes, model.theme, model.changelog.Width))
	if maximum := model.changelog.TotalLineCount() - model.changelog.Height; offset > maximum {
		offset = max(maximum, 0)
	}
	model.changelog.SetYOffset(offset)
}

// renderProtonTab renders the release list and changelog side by
// side.
func (model Model) renderProtonTab(width, height int) string {
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	if model.releasesLoading && model.feed == nil {
		return padPane([]string{"", faint.Render("   loading releases…")}, height)
	}
	if model.feed == nil {
		text := "   no releases available"
		if model.releasesError != "" {
			text = "   " + model.releasesError
		}
		return padPane([]string{"", lipgloss.NewStyle().Foreground(model.theme.Failure).Render(text)}, height)
	}

	listWidth := model.protonListWidth()
	list := model.renderReleaseList(listWidth, height)

	divider := lipgloss.NewStyle().Foreground(model.theme.BorderColor).
		Render(strings.TrimSuffix(strings.Repeat("│\n", height), "\n"))

	detailWidth := width - listWidth - 1
	detail := model.renderChangelogPane(detailWidth, height)

	return lipgloss.JoinHorizontal(lipgloss.Top, list, divider, detail)
}

// renderReleaseList renders the release rows: tag, publish date, age.
func (model Model) renderReleaseList(width, height int) string {
	rowWidth := width - 1
	releases := model.feed.Releases
	now := model.clock.Now()

	rows := make([]string, 0, height)
	end := model.protonList.scroll + height
	if end > len(releases) {
		end = len(releases)
	}
	for index := model.protonList.scroll; index < end; index++ {
		rows = append(rows, model.renderReleaseRow(releases[index], index, rowWidth, now))
	}
	for len(rows) < height {
		rows = append(rows, lipgloss.NewStyle().Width(rowWidth).Render(""))
	}

	content := lipgloss.NewStyle().Width(rowWidth).Height(height).Render(strings.Join(rows, "\n"))
	scrollbar := tui.RenderScrollbar(model.theme, height, len(releases), height, model.protonList.scroll, model.focusRegion == FocusList)
	return lipgloss.JoinHorizontal(lipgloss.Top, content, scrollbar)
}

// Column widths for the release list.
const (
	releaseDateWidth = 10
	releaseAgeWidth  = 14
)

// renderReleaseRow renders one release row: tag, publish date,
// relative age.
func (model Model) renderReleaseRow(release proton.Release, index, rowWidth int, now time.Time) string {
	isCursor := index == model.protonList.cursor

	marker := "  "
	if isCursor {
		marker = "> "
	}
	tagWidth := rowWidth - len(marker) - releaseDateWidth - releaseAgeWidth - 2
	if tagWidth < 8 {
		tagWidth = 8
	}
	tag := ansi.Truncate(release.Tag, tagWidth, "…")
	date := release.Published.Format("2006-01-02")
	age := ansi.Truncate(humanize.RelTime(release.Published, now, "ago", "from now"), releaseAgeWidth, "…")

	plain := marker + padCell(tag, tagWidth) + " " + date + " " + age
	if isCursor {
		return lipgloss.NewStyle().
			Background(model.theme.SelectedBackground).
			Foreground(model.theme.SelectedForeground).
			Width(rowWidth).MaxWidth(rowWidth).
			Render(plain)
	}

	normal := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	return marker + normal.Render(padCell(tag, tagWidth)) + " " +
		faint.Render(date) + " " + faint.Render(age)
}

// renderChangelogPane renders the changelog: a three-line header and
// the rendered notes below it.
func (model Model) renderChangelogPane(width, height int) string {
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	release, ok := model.selectedRelease()
	if !ok {
		return lipgloss.NewStyle().Width(width).Height(height).
			Render("\n" + faint.Render(" no release selected"))
	}

	title := release.Title
	if title == "" {
		title = release.Tag
	}
	titleLine := " " + lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true).
		Render(ansi.Truncate(title, width-2, "…"))

	var meta []string
	meta = append(meta, release.Published.Format("2006-01-02"))
	if release.TarballName != "" {
		meta = append(meta, release.TarballName)
	}
	if release.TarballSize > 0 {
		meta = append(meta, humanize.Bytes(uint64(release.TarballSize)))
	}
	metaLine := " " + faint.Render(ansi.Truncate(strings.Join(meta, " · "), width-2, "…"))

	rule := lipgloss.NewStyle().Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", max(width, 0)))

	body := lipgloss.NewStyle().PaddingLeft(1).Render(model.changelog.View())
	scrollbar := tui.RenderScrollbar(model.theme, model.changelog.Height,
		model.changelog.TotalLineCount(), model.changelog.Height,
		model.changelog.YOffset, model.focusRegion == FocusDetail)

	return lipgloss.JoinVertical(lipgloss.Left,
		titleLine,
		metaLine,
		rule,
		lipgloss.JoinHorizontal(lipgloss.Top, body, scrollbar),
	)
}
