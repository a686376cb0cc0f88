// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package operation

// outputDelimiter separates the transcript header from the child's
// output. The classifier matches only lines after it.
const outputDelimiter = "--- Output ---"

// transcriptHeader returns the two lines every transcript starts
// with: the rendered command and the output delimiter.
func transcriptHeader(commandLine string) []string {
	return []string{"Command: " + commandLine, outputDelimiter}
}

// transcriptBody returns the lines after the header delimiter. When
// no delimiter is present (bare line slices in tests), the whole
// slice is the body.
func transcriptBody(lines []string) []string {
	for index, line := range lines {
		if line == outputDelimiter {
			return lines[index+1:]
		}
	}
	return lines
}
