package runes

import "testing"

func TestBreakLen(t *testing.T) {
	tt := []struct {
		s    string
		i, n int
	}{
		{"a\r\nb", 1, 2},
		{"a\rb", 1, 1},
		{"a\nb", 1, 1},
		{"a\n\rb", 1, 1},
		{"ab", 0, 0},
		{"ab", 5, 0},
		{"\r", 0, 1},
	}
	for _, tc := range tt {
		if got := BreakLen([]rune(tc.s), tc.i); got != tc.n {
			t.Errorf("BreakLen(%q, %d) is %d; expected %d", tc.s, tc.i, got, tc.n)
		}
	}
}

func TestIndexAny(t *testing.T) {
	s := []rune("ab\tc\nd")
	if got := IndexAny(s, 0, '\t', '\n'); got != 2 {
		t.Errorf("IndexAny got %d; expected 2", got)
	}
	if got := IndexAny(s, 3, '\t', '\n'); got != 4 {
		t.Errorf("IndexAny from 3 got %d; expected 4", got)
	}
	if got := IndexAny(s, 0, 'z'); got != -1 {
		t.Errorf("IndexAny missing got %d; expected -1", got)
	}
}

func TestIsControl(t *testing.T) {
	for _, r := range []rune{'\b', '\r', 0x7f, 0} {
		if !IsControl(r) {
			t.Errorf("IsControl(%U) false; expected true", r)
		}
	}
	for _, r := range []rune{' ', 'a', 'é'} {
		if IsControl(r) {
			t.Errorf("IsControl(%U) true; expected false", r)
		}
	}
}
