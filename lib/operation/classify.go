// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package operation

import "strings"

// Classification is the classifier's interpretation of a transcript.
// Recomputed as the transcript grows; every field is first-match
// monotone, so incremental observation during streaming agrees with
// [Classify] over the full transcript.
type Classification struct {
	// CurrentTarget is the application ID of the first known target
	// whose display name or ID appeared in the output. Empty until a
	// target is recognized.
	CurrentTarget string

	// Completion is true once a completion keyword has been seen.
	// The UI may flip to a completed state optimistically, before
	// the child exits.
	Completion bool

	// ArtifactHint is the RPM filename announced by conversion
	// output, exactly as printed (alien prints a bare name, but a
	// path survives too). Empty until announced.
	ArtifactHint string
}

// completionKeywords flip Classification.Completion when any of them
// appears, case-insensitively, in an output line. "nothing to do"
// covers Flatpak's literal "Nothing to do" summary.
var completionKeywords = []string{"complete", "installed", "success", "nothing to do"}

// noOpMarkers reclassify a non-zero exit as "nothing needed doing"
// rather than failure.
var noOpMarkers = []string{"nothing to do", "no updates"}

// Classify derives a Classification from transcript lines and the
// known targets. Pure and deterministic: no clocks, no randomness,
// idempotent over the same inputs. The transcript header (everything
// up to and including the output delimiter) is never matched.
func Classify(lines []string, targets []Target) Classification {
	var classification Classification
	for _, line := range transcriptBody(lines) {
		classification.observe(line, targets)
	}
	return classification
}

// IsNoOp reports whether the transcript indicates the tool had
// nothing to do. Consulted on non-zero exit to distinguish "already
// up to date" from failure.
func IsNoOp(lines []string) bool {
	for _, line := range transcriptBody(lines) {
		lower := strings.ToLower(line)
		for _, marker := range noOpMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}

// observe folds one output line into the classification. Set fields
// are never overwritten: the first match wins, with ties within a
// line broken by target list order.
func (c *Classification) observe(line string, targets []Target) {
	lower := strings.ToLower(line)

	if !c.Completion {
		for _, keyword := range completionKeywords {
			if strings.Contains(lower, keyword) {
				c.Completion = true
				break
			}
		}
	}

	if c.CurrentTarget == "" {
		for _, target := range targets {
			if targetAppears(target, lower) {
				c.CurrentTarget = target.AppID
				break
			}
		}
	}

	if c.ArtifactHint == "" {
		c.ArtifactHint = artifactToken(line)
	}
}

// targetAppears reports whether the target's application ID or
// display name occurs in the lowercased line.
func targetAppears(target Target, lowerLine string) bool {
	if target.AppID != "" && strings.Contains(lowerLine, strings.ToLower(target.AppID)) {
		return true
	}
	return target.Name != "" && strings.Contains(lowerLine, strings.ToLower(target.Name))
}

// artifactToken extracts the produced RPM filename from a conversion
// output line: the first whitespace-separated token ending in ".rpm"
// on a line that also mentions "generated" or "created". Returns the
// token with its original casing, or "" when the line announces no
// artifact.
func artifactToken(line string) string {
	lower := strings.ToLower(line)
	if !strings.Contains(lower, "generated") && !strings.Contains(lower, "created") {
		return ""
	}
	for _, token := range strings.Fields(line) {
		if strings.HasSuffix(strings.ToLower(token), ".rpm") {
			return token
		}
	}
	return ""
}
