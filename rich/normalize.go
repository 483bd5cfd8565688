package rich

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// IsNormalized reports whether s is in canonical decomposed form (NFD).
func IsNormalized(s String) bool {
	return norm.NFD.IsNormalString(string(s.text))
}

// NormalizeText returns text in NFD.
func NormalizeText(text string) string {
	return norm.NFD.String(text)
}

// Normalize returns s converted to NFD run by run. Each offset in offsets
// is a rune offset into s and is updated in place to the corresponding
// offset in the result, so that a caret does not jump when normalization
// changes the length of the text before it.
func Normalize(s String, offsets ...*int) String {
	if IsNormalized(s) {
		return s
	}
	var b Builder
	type fix struct {
		p    *int
		done bool
	}
	fixes := make([]fix, 0, len(offsets))
	for _, p := range offsets {
		if p != nil {
			fixes = append(fixes, fix{p: p})
		}
	}
	for i := range s.runs {
		min, lim, p := s.Run(i)
		start := len(b.text)
		for j := range fixes {
			f := &fixes[j]
			if f.done || *f.p < min || *f.p >= lim {
				continue
			}
			prefix := norm.NFD.String(string(s.text[min:*f.p]))
			*f.p = start + utf8.RuneCountInString(prefix)
			f.done = true
		}
		b.appendRunes([]rune(norm.NFD.String(string(s.text[min:lim]))), p)
	}
	for j := range fixes {
		if !fixes[j].done {
			// At or beyond the end.
			*fixes[j].p = len(b.text)
		}
	}
	if len(b.text) == 0 {
		return s
	}
	return b.Value()
}
