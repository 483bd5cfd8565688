// Package runes classifies the runes of typed and pasted input.
package runes

// IndexAny returns the index of the first rune of s at or after from that
// is one of chars, or -1.
func IndexAny(s []rune, from int, chars ...rune) int {
	for i := from; i < len(s); i++ {
		for _, c := range chars {
			if s[i] == c {
				return i
			}
		}
	}
	return -1
}

// IsParaBreak reports whether r starts a paragraph break sequence.
func IsParaBreak(r rune) bool {
	return r == '\r' || r == '\n'
}

// BreakLen returns the length of the paragraph break sequence at s[i]: 2
// for "\r\n", 1 for a lone '\r' or '\n', 0 otherwise.
func BreakLen(s []rune, i int) int {
	if i >= len(s) || !IsParaBreak(s[i]) {
		return 0
	}
	if s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
		return 2
	}
	return 1
}

// IsControl reports whether r is a C0 control or DEL.
func IsControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}
