// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"slices"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching a pattern against one text.
// Score is positive for a match and zero otherwise. Positions holds
// the rune indices of the matched characters in the original text,
// sorted ascending.
type FuzzyResult struct {
	Score     int
	Positions []int
}

// NewSlab allocates the scratch memory the fzf scoring algorithm
// reuses across calls. One slab per render loop is enough; passing nil
// to FuzzyMatch makes the algorithm allocate per call instead.
func NewSlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}

// FuzzyMatch scores pattern against text using fzf's FuzzyMatchV2.
// Matching is case-insensitive: both sides are lowered before scoring,
// and the lowering is done per rune (unicode.ToLower is a 1:1 rune
// mapping) so the returned positions remain valid indices into the
// original text. An empty pattern or a non-match returns the zero
// FuzzyResult.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 || text == "" {
		return FuzzyResult{}
	}

	loweredText := make([]rune, 0, len(text))
	for _, character := range text {
		loweredText = append(loweredText, unicode.ToLower(character))
	}
	loweredPattern := make([]rune, len(pattern))
	for index, character := range pattern {
		loweredPattern[index] = unicode.ToLower(character)
	}

	// Both sides are already lowercased, so the algorithm runs in
	// case-sensitive mode for deterministic scoring.
	chars := util.ToChars([]byte(string(loweredText)))
	result, positions := algo.FuzzyMatchV2(true, false, true, &chars, loweredPattern, true, slab)
	if result.Score <= 0 {
		return FuzzyResult{}
	}

	matched := FuzzyResult{Score: result.Score}
	if positions != nil && len(*positions) > 0 {
		matched.Positions = slices.Clone(*positions)
		slices.Sort(matched.Positions)
	}
	return matched
}
