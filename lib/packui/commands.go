// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package packui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fedpak-project/fedpak/lib/operation"
	"github.com/fedpak-project/fedpak/lib/oplog"
	"github.com/fedpak-project/fedpak/lib/tui"
)

// loadTimeout bounds the background data loads. A wedged flatpak or
// an unreachable GitHub should surface as a tab error, not a
// permanently spinning tab.
const loadTimeout = 30 * time.Second

// loadApps lists installed applications in the background.
func loadApps(lister AppLister) tea.Cmd {
	return func() tea.Msg {
		if lister == nil {
			return appsLoadedMsg{err: errors.New("no application source configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		apps, err := lister.Installed(ctx)
		return appsLoadedMsg{apps: apps, err: err}
	}
}

// loadReleases fetches the Proton-GE feed through the cache-honoring
// path: a fresh snapshot is served without touching the network.
func loadReleases(source ReleaseSource) tea.Cmd {
	return func() tea.Msg {
		if source == nil {
			return releasesLoadedMsg{err: errors.New("no release source configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		feed, err := source.Releases(ctx)
		return releasesLoadedMsg{feed: feed, err: err}
	}
}

// refreshReleases revalidates the Proton-GE feed regardless of
// snapshot age.
func refreshReleases(source ReleaseSource) tea.Cmd {
	return func() tea.Msg {
		if source == nil {
			return releasesLoadedMsg{err: errors.New("no release source configured"), manual: true}
		}
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		feed, err := source.Refresh(ctx)
		return releasesLoadedMsg{feed: feed, err: err, manual: true}
	}
}

// loadLogs lists the operation log directory.
func loadLogs(dir string, igniteNewest bool) tea.Cmd {
	return func() tea.Msg {
		entries, err := oplog.List(dir)
		return logsLoadedMsg{entries: entries, err: err, igniteNewest: igniteNewest}
	}
}

// loadLogContent reads one log file (decompressing if needed) for the
// viewer.
func loadLogContent(path string) tea.Cmd {
	return func() tea.Msg {
		content, err := oplog.Read(path)
		return logContentMsg{path: path, content: content, err: err}
	}
}

// pickFile opens the graphical file chooser. No timeout: the dialog
// stays up until the user decides.
func pickFile(picker Picker, title, filter string) tea.Cmd {
	return func() tea.Msg {
		path, err := picker.Pick(context.Background(), title, filter)
		return pickResultMsg{path: path, err: err}
	}
}

// listenForOperationEvent receives one engine event. The handler
// re-arms it until the channel closes, which arrives as closed=true.
func listenForOperationEvent(events <-chan operation.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return operationEventMsg{closed: true}
		}
		return operationEventMsg{event: event}
	}
}

// scheduleHeatTick arms the next flash animation frame.
func scheduleHeatTick() tea.Cmd {
	return tea.Tick(tui.HeatTickInterval, func(time.Time) tea.Msg {
		return heatTickMsg{}
	})
}
