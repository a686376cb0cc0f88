// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HighlightMatches renders text with the runes at the given positions
// in matchStyle and everything else in baseStyle. Positions are rune
// indices, as produced by FuzzyMatch. Consecutive runs of same-style
// runes are batched into a single Render call to keep ANSI output
// compact.
func HighlightMatches(text string, positions []int, baseStyle, matchStyle lipgloss.Style) string {
	if len(positions) == 0 {
		return baseStyle.Render(text)
	}

	positionSet := make(map[int]bool, len(positions))
	for _, position := range positions {
		positionSet[position] = true
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	var result strings.Builder
	runStart := 0
	highlighted := positionSet[0]

	for index := 1; index <= len(runes); index++ {
		currentHighlighted := index < len(runes) && positionSet[index]
		if currentHighlighted != highlighted || index == len(runes) {
			chunk := string(runes[runStart:index])
			if highlighted {
				result.WriteString(matchStyle.Render(chunk))
			} else {
				result.WriteString(baseStyle.Render(chunk))
			}
			runStart = index
			highlighted = currentHighlighted
		}
	}

	return result.String()
}
