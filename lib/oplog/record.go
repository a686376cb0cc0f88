// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package oplog

import (
	"fmt"
	"strings"
	"time"
)

// delimiter separates the record header from the embedded transcript.
const delimiter = "----------------------------------------"

// timestampFormat renders the record's Date line. The filename uses
// filenameTimeFormat; the two differ only in separators so filenames
// stay shell-friendly.
const (
	timestampFormat    = "2006-01-02 15:04:05"
	filenameTimeFormat = "2006-01-02_15-04-05"
)

// Record is the persisted summary of one completed operation. Written
// once, never mutated.
type Record struct {
	// Operation is the operation kind identifier
	// (e.g., "flatpak-update", "deb-to-rpm").
	Operation string

	// Target identifies what the operation acted on: the application
	// list for updates, the package file for conversions.
	Target string

	// Remote is the Flatpak remote name, when known. Omitted from
	// the rendered record when empty.
	Remote string

	// Success is true for successful and no-op outcomes, false for
	// failures.
	Success bool

	// Transcript is the full merged output record, one line per
	// element.
	Transcript []string
}

// render produces the fixed log template.
func (r Record) render(timestamp time.Time) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "fedpak operation log: %s\n", r.Operation)
	fmt.Fprintf(&builder, "Date: %s\n", timestamp.Format(timestampFormat))
	fmt.Fprintf(&builder, "Target: %s\n", r.Target)
	if r.Remote != "" {
		fmt.Fprintf(&builder, "Remote: %s\n", r.Remote)
	}
	status := "SUCCESS"
	if !r.Success {
		status = "FAILED"
	}
	fmt.Fprintf(&builder, "Status: %s\n", status)
	builder.WriteString(delimiter + "\n")
	for _, line := range r.Transcript {
		builder.WriteString(line + "\n")
	}
	builder.WriteString(delimiter + "\n")
	return builder.String()
}
