package rich

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	plain = Props{Style: Style{Scale: 1}, Ws: 1}
	bold  = Props{Style: Style{Bold: true, Scale: 1}, Ws: 1}
)

func TestStringLen(t *testing.T) {
	tests := []struct {
		name string
		s    String
		want int
	}{
		{"zero value", String{}, 0},
		{"empty with props", Empty(plain), 0},
		{"ascii text", Plain("hello", plain), 5},
		{"unicode text", Plain("hello世界", plain), 7},
		{"two spans", FromSpans(Span{"ab", plain}, Span{"cd", bold}), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Len(); got != tt.want {
				t.Errorf("Len() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFromSpansMergesEqualRuns(t *testing.T) {
	s := FromSpans(Span{"ab", plain}, Span{"", bold}, Span{"cd", plain}, Span{"ef", bold})
	want := []Span{{"abcd", plain}, {"ef", bold}}
	if diff := cmp.Diff(want, s.Spans()); diff != "" {
		t.Errorf("Spans mismatch (-want +got):\n%s", diff)
	}
}

func TestRunAt(t *testing.T) {
	s := FromSpans(Span{"ab", plain}, Span{"cd", bold})
	tests := []struct {
		ich      int
		irun     int
		min, lim int
		props    Props
	}{
		{0, 0, 0, 2, plain},
		{1, 0, 0, 2, plain},
		{2, 1, 2, 4, bold},
		{4, 1, 2, 4, bold},
	}
	for _, tt := range tests {
		irun, min, lim, p := s.RunAt(tt.ich)
		if irun != tt.irun || min != tt.min || lim != tt.lim || p != tt.props {
			t.Errorf("RunAt(%d) = %d [%d,%d) %v, want %d [%d,%d) %v", tt.ich, irun, min, lim, p, tt.irun, tt.min, tt.lim, tt.props)
		}
	}
}

func TestSubstring(t *testing.T) {
	s := FromSpans(Span{"abc", plain}, Span{"def", bold})
	tests := []struct {
		name     string
		min, lim int
		want     []Span
	}{
		{"inside first run", 0, 2, []Span{{"ab", plain}}},
		{"straddle", 2, 4, []Span{{"c", plain}, {"d", bold}}},
		{"whole", 0, 6, []Span{{"abc", plain}, {"def", bold}}},
		{"reversed bounds", 4, 2, []Span{{"c", plain}, {"d", bold}}},
		{"clamped", -3, 99, []Span{{"abc", plain}, {"def", bold}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, s.Substring(tt.min, tt.lim).Spans()); diff != "" {
				t.Errorf("Substring(%d,%d) mismatch (-want +got):\n%s", tt.min, tt.lim, diff)
			}
		})
	}
	if got := s.Substring(4, 4).PropsAt(0); got != bold {
		t.Errorf("empty substring props = %v, want %v", got, bold)
	}
}

func TestBuilderReplace(t *testing.T) {
	b := FromSpans(Span{"abcdef", plain}).Builder()
	b.Replace(1, 3, Empty(plain))
	if got := b.Text(); got != "adef" {
		t.Fatalf("after delete got %q, want %q", got, "adef")
	}
	b.ReplaceRunes(1, 1, "X", bold)
	want := []Span{{"a", plain}, {"X", bold}, {"def", plain}}
	if diff := cmp.Diff(want, b.Value().Spans()); diff != "" {
		t.Errorf("after insert mismatch (-want +got):\n%s", diff)
	}
	b.Replace(0, b.Len(), Empty(bold))
	if b.Len() != 0 || b.PropsAt(0) != bold {
		t.Errorf("emptied builder = %q %v, want empty with bold", b.Text(), b.PropsAt(0))
	}
}

func TestBuilderSetProps(t *testing.T) {
	b := Plain("hello", plain).Builder()
	b.SetProps(1, 3, bold)
	want := []Span{{"h", plain}, {"el", bold}, {"lo", plain}}
	if diff := cmp.Diff(want, b.Value().Spans()); diff != "" {
		t.Errorf("SetProps mismatch (-want +got):\n%s", diff)
	}
}

func TestStringImmutable(t *testing.T) {
	s := Plain("cat", plain)
	b := s.Builder()
	b.ReplaceRunes(3, 3, "s", plain)
	if s.Text() != "cat" {
		t.Errorf("original changed to %q", s.Text())
	}
	if !b.Value().Equal(Plain("cats", plain)) {
		t.Errorf("builder value %q, want cats", b.Text())
	}
}

func TestEqual(t *testing.T) {
	if !Empty(plain).Equal(Empty(bold)) {
		t.Error("empty strings should be equal regardless of props")
	}
	if Plain("a", plain).Equal(Plain("a", bold)) {
		t.Error("strings with different props should differ")
	}
	if !FromSpans(Span{"a", plain}, Span{"b", plain}).Equal(Plain("ab", plain)) {
		t.Error("merged runs should equal a single run")
	}
}

func TestObject(t *testing.T) {
	s := Object(ObjData{Kind: ObjPicture, Ref: "pic"}, plain)
	if s.Len() != 1 || s.RuneAt(0) != ObjectReplacementChar {
		t.Fatalf("Object string = %q", s.Text())
	}
	if p := s.PropsAt(0); p.Obj.Kind != ObjPicture || p.WithoutObj().Obj.Kind != ObjNone {
		t.Errorf("object props = %v", p)
	}
}
