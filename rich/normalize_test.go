package rich

import "testing"

func TestNormalizeAdjustsOffsets(t *testing.T) {
	// "é" precomposed decomposes to "e" + U+0301.
	s := Plain("a\u00e9b", plain)
	anchor, end := 2, 3
	n := Normalize(s, &anchor, &end)
	if got, want := n.Text(), "ae\u0301b"; got != want {
		t.Fatalf("Normalize text = %q, want %q", got, want)
	}
	if anchor != 3 || end != 4 {
		t.Errorf("offsets = %d,%d, want 3,4", anchor, end)
	}
}

func TestNormalizeAlreadyNFD(t *testing.T) {
	s := Plain("plain", plain)
	ich := 2
	if n := Normalize(s, &ich); !n.Equal(s) || ich != 2 {
		t.Errorf("Normalize changed NFD text: %q %d", n.Text(), ich)
	}
	if !IsNormalized(s) {
		t.Error("IsNormalized(plain) = false")
	}
}

func TestNormalizeKeepsRuns(t *testing.T) {
	s := FromSpans(Span{"\u00e9", plain}, Span{"\u00fc", bold})
	n := Normalize(s)
	if n.RunCount() != 2 || n.Len() != 4 {
		t.Fatalf("Normalize runs = %d len %d, want 2 runs len 4", n.RunCount(), n.Len())
	}
	if n.PropsAt(2) != bold {
		t.Errorf("second run props = %v", n.PropsAt(2))
	}
}
