// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package packui

import (
	"testing"
	"time"

	"github.com/fedpak-project/fedpak/lib/oplog"
	"github.com/fedpak-project/fedpak/lib/tui"
)

func TestApplyAppsEmptyFilterReturnsAll(t *testing.T) {
	t.Parallel()

	filter := FilterModel{}
	matches := filter.ApplyApps(testApps, tui.NewSlab())
	if len(matches) != len(testApps) {
		t.Fatalf("got %d matches, want all %d", len(matches), len(testApps))
	}
	for index, match := range matches {
		if match.App.ID != testApps[index].ID {
			t.Errorf("match %d = %s, want original order", index, match.App.ID)
		}
		if match.Score != 0 || match.NamePositions != nil {
			t.Errorf("match %d carries score %d and positions %v on an empty filter", index, match.Score, match.NamePositions)
		}
	}
}

func TestApplyAppsMatchesAnyField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "display name", query: "maps", want: "org.gnome.Maps"},
		{name: "application ID", query: "spotify", want: "com.spotify.Client"},
		{name: "origin", query: "flathub", want: ""}, // Matches every app.
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			filter := FilterModel{Input: test.query}
			matches := filter.ApplyApps(testApps, tui.NewSlab())
			if len(matches) == 0 {
				t.Fatalf("query %q matched nothing", test.query)
			}
			if test.want == "" {
				if len(matches) != len(testApps) {
					t.Errorf("query %q matched %d apps, want all (shared origin)", test.query, len(matches))
				}
				return
			}
			if matches[0].App.ID != test.want {
				t.Errorf("top match = %s, want %s", matches[0].App.ID, test.want)
			}
		})
	}
}

func TestApplyAppsSortsByScore(t *testing.T) {
	t.Parallel()

	filter := FilterModel{Input: "o"}
	matches := filter.ApplyApps(testApps, tui.NewSlab())
	for index := 1; index < len(matches); index++ {
		if matches[index].Score > matches[index-1].Score {
			t.Fatalf("match %d score %d exceeds predecessor %d", index, matches[index].Score, matches[index-1].Score)
		}
	}
}

func TestApplyAppsNamePositions(t *testing.T) {
	t.Parallel()

	filter := FilterModel{Input: "map"}
	matches := filter.ApplyApps(testApps, tui.NewSlab())
	if len(matches) == 0 {
		t.Fatal("no matches")
	}
	top := matches[0]
	if top.App.Name != "Maps" {
		t.Fatalf("top match = %s, want Maps", top.App.Name)
	}
	if len(top.NamePositions) == 0 {
		t.Fatal("no name positions recorded for a name match")
	}
	runes := []rune(top.App.Name)
	for _, position := range top.NamePositions {
		if position < 0 || position >= len(runes) {
			t.Errorf("position %d outside the name", position)
		}
	}

	// A match that rode in on another field keeps no name positions.
	filter = FilterModel{Input: "flathub"}
	for _, match := range filter.ApplyApps(testApps, tui.NewSlab()) {
		if len(match.NamePositions) != 0 {
			t.Errorf("%s carries name positions for an origin-only match", match.App.ID)
		}
	}
}

func TestApplyLogsResultWord(t *testing.T) {
	t.Parallel()

	entries := []oplog.Entry{
		{
			Path:      "/logs/flatpak-update-20260301-120000.log",
			Operation: "flatpak-update",
			Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			Success:   true,
		},
		{
			Path:      "/logs/deb-to-rpm-20260228-090000.log",
			Operation: "deb-to-rpm",
			Timestamp: time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC),
			Success:   false,
		},
	}

	filter := FilterModel{Input: "failed"}
	matches := filter.ApplyLogs(entries, tui.NewSlab())
	if len(matches) != 1 || matches[0].Entry.Success {
		t.Errorf("query failed matched %d entries, want just the failed one", len(matches))
	}

	filter = FilterModel{Input: "success"}
	matches = filter.ApplyLogs(entries, tui.NewSlab())
	if len(matches) != 1 || !matches[0].Entry.Success {
		t.Errorf("query success matched %d entries, want just the successful one", len(matches))
	}

	filter = FilterModel{Input: "deb"}
	matches = filter.ApplyLogs(entries, tui.NewSlab())
	if len(matches) != 1 || matches[0].Entry.Operation != "deb-to-rpm" {
		t.Errorf("query deb matched %d entries, want the conversion", len(matches))
	}

	filter = FilterModel{}
	matches = filter.ApplyLogs(entries, tui.NewSlab())
	if len(matches) != len(entries) {
		t.Errorf("empty filter matched %d entries, want all", len(matches))
	}
}
