package rich

import (
	"github.com/rivo/uniseg"
)

// GraphemeStarts returns the rune offset at which each grapheme cluster of
// text starts, followed by len(text).
func GraphemeStarts(text []rune) []int {
	starts := make([]int, 0, len(text)+1)
	g := uniseg.NewGraphemes(string(text))
	ich := 0
	for g.Next() {
		starts = append(starts, ich)
		ich += len(g.Runes())
	}
	return append(starts, ich)
}

// IsGraphemeBoundary reports whether ich falls between grapheme clusters.
func IsGraphemeBoundary(text []rune, ich int) bool {
	if ich <= 0 || ich >= len(text) {
		return true
	}
	for _, s := range GraphemeStarts(text) {
		if s == ich {
			return true
		}
		if s > ich {
			return false
		}
	}
	return false
}

// PrevGrapheme returns the start of the grapheme cluster ending at or
// containing ich-1, or 0.
func PrevGrapheme(text []rune, ich int) int {
	prev := 0
	for _, s := range GraphemeStarts(text) {
		if s >= ich {
			break
		}
		prev = s
	}
	return prev
}

// NextGrapheme returns the end of the grapheme cluster starting at or
// containing ich, or len(text).
func NextGrapheme(text []rune, ich int) int {
	for _, s := range GraphemeStarts(text) {
		if s > ich {
			return s
		}
	}
	return len(text)
}
