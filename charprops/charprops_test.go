package charprops

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify(t *testing.T) {
	e := NewRegistry().ForWs(0)
	tests := []struct {
		r    rune
		want Class
	}{
		{'a', Alpha},
		{'Z', Alpha},
		{'7', Alpha},
		{' ', Space},
		{'\t', Space},
		{'\u00a0', Space},
		{'.', Punct},
		{'\'', Punct},
		{'-', Punct},
		{'\u0301', Alpha},
	}
	for _, tc := range tests {
		if got := Classify(e, tc.r); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.r, got, tc.want)
		}
	}
}

func TestProfileOverrides(t *testing.T) {
	r := NewRegistry(Profile{Ws: 3, Name: "x", WordForming: "'", Separators: "|"})
	e := r.ForWs(3)
	if got := Classify(e, '\''); got != Alpha {
		t.Errorf("apostrophe in ws 3 = %v, want Alpha", got)
	}
	if got := Classify(e, '|'); got != Space {
		t.Errorf("bar in ws 3 = %v, want Space", got)
	}
	if got := Classify(r.ForWs(4), '\''); got != Punct {
		t.Errorf("apostrophe in unknown ws = %v, want Punct", got)
	}
}

func TestLoadRegistry(t *testing.T) {
	const doc = `
writingSystems:
  - ws: 1
    name: en
  - ws: 2
    name: ar
    rtl: true
    wordForming: "ـ"
`
	r, err := LoadRegistry(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	got, ok := r.Profile(2)
	if !ok {
		t.Fatal("profile 2 missing")
	}
	want := Profile{Ws: 2, Name: "ar", RightToLeft: true, WordForming: "ـ"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRegistryDuplicate(t *testing.T) {
	const doc = `
writingSystems:
  - ws: 1
  - ws: 1
`
	if _, err := LoadRegistry(strings.NewReader(doc)); err == nil {
		t.Error("expected an error for a duplicate writing system")
	}
}

func TestDirection(t *testing.T) {
	if !IsStrongRightToLeft('א') || !IsStrongRightToLeft('ب') {
		t.Error("Hebrew and Arabic letters are right-to-left")
	}
	if IsStrongRightToLeft('a') || !IsStrongLeftToRight('a') {
		t.Error("Latin letters are left-to-right")
	}
	if IsStrongLeftToRight(' ') || IsStrongRightToLeft(' ') {
		t.Error("space is neutral")
	}
}

func TestFirstStrongDirection(t *testing.T) {
	tests := []struct {
		s       string
		rtl, ok bool
	}{
		{"", false, false},
		{"  12 ", false, false},
		{"abc", false, true},
		{" 1 \u05d0bc", true, true},
		{"a\u05d0", false, true},
	}
	for _, tt := range tests {
		rtl, ok := Direction(tt.s)
		if rtl != tt.rtl || ok != tt.ok {
			t.Errorf("Direction(%q) = %v, %v; want %v, %v", tt.s, rtl, ok, tt.rtl, tt.ok)
		}
	}
}
