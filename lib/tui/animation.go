// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"time"
)

// HeatDecayDuration is how long a row glows after an operation touches
// it. Heat starts at 1.0 and decays linearly to 0.0 over this duration.
const HeatDecayDuration = 5 * time.Second

// HeatTickInterval is the re-render interval while any rows are hot.
// 100ms gives ~10fps animation for smooth decay.
const HeatTickInterval = 100 * time.Millisecond

// HeatKind selects the flash color for a touched row.
type HeatKind int

const (
	// HeatSuccess marks a row whose operation finished well: an app
	// that was just updated, a conversion that produced its package.
	HeatSuccess HeatKind = iota
	// HeatFailure marks a row whose operation failed.
	HeatFailure
)

// heatEntry records when and how a row was last touched.
type heatEntry struct {
	ignition time.Time
	kind     HeatKind
}

// HeatTracker maps row IDs (app IDs, log file names) to ignition
// timestamps for animated change highlighting. Each finished operation
// "ignites" the rows it touched, which then decay from full intensity
// to zero over [HeatDecayDuration].
type HeatTracker struct {
	entries map[string]heatEntry
}

// NewHeatTracker creates an empty heat tracker.
func NewHeatTracker() *HeatTracker {
	return &HeatTracker{
		entries: make(map[string]heatEntry),
	}
}

// Ignite records a change event for a row. Resets the decay timer if
// the row was already hot.
func (tracker *HeatTracker) Ignite(rowID string, kind HeatKind, now time.Time) {
	tracker.entries[rowID] = heatEntry{ignition: now, kind: kind}
}

// Heat returns the current intensity for a row: 1.0 at ignition,
// linearly decaying to 0.0 over [HeatDecayDuration]. Returns 0.0 for
// rows that were never ignited or have fully decayed.
func (tracker *HeatTracker) Heat(rowID string, now time.Time) float64 {
	entry, exists := tracker.entries[rowID]
	if !exists {
		return 0.0
	}
	elapsed := now.Sub(entry.ignition)
	if elapsed >= HeatDecayDuration {
		return 0.0
	}
	return 1.0 - float64(elapsed)/float64(HeatDecayDuration)
}

// Kind returns the heat kind for a row. Only meaningful when Heat()
// returns > 0.
func (tracker *HeatTracker) Kind(rowID string) HeatKind {
	entry, exists := tracker.entries[rowID]
	if !exists {
		return HeatSuccess
	}
	return entry.kind
}

// HasHot returns true if any tracked row still has heat > 0, meaning
// the tick timer should keep running for animation.
func (tracker *HeatTracker) HasHot(now time.Time) bool {
	for rowID, entry := range tracker.entries {
		if now.Sub(entry.ignition) < HeatDecayDuration {
			return true
		}
		// Garbage-collect fully decayed entries.
		delete(tracker.entries, rowID)
	}
	return false
}
