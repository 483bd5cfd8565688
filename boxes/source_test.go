package boxes

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rjkroege/richedit/rich"
)

var plain = rich.Props{Ws: 1}

func footnote(ref string) rich.String {
	return rich.Object(rich.ObjData{Kind: rich.ObjOwnNameGUIDHot, Ref: ref}, plain)
}

func TestSourceOffsets(t *testing.T) {
	reps := map[string]string{"fn1": "[12]", "fn2": ""}
	textRep := func(d rich.ObjData) string { return reps[d.Ref] }

	tests := []struct {
		name     string
		items    []Item
		wantLen  int
		wantRen  string
		logToRen []int
	}{
		{
			name:     "plain",
			items:    []Item{{Str: rich.Plain("abc", plain)}},
			wantLen:  3,
			wantRen:  "abc",
			logToRen: []int{0, 1, 2, 3},
		},
		{
			name:     "expanded footnote",
			items:    []Item{{Str: rich.Plain("ab", plain).Concat(footnote("fn1")).Concat(rich.Plain("c", plain))}},
			wantLen:  4,
			wantRen:  "ab[12]c",
			logToRen: []int{0, 1, 2, 6, 7},
		},
		{
			name:     "empty expansion renders the object character",
			items:    []Item{{Str: footnote("fn2")}},
			wantLen:  1,
			wantRen:  string(rich.ObjectReplacementChar),
			logToRen: []int{0, 1},
		},
		{
			name:     "embedded box",
			items:    []Item{{Str: rich.Plain("x", plain)}, {Box: &Pile{Kind: PileInner}}, {Str: rich.Plain("y", plain)}},
			wantLen:  3,
			wantRen:  "x" + string(rich.ObjectReplacementChar) + "y",
			logToRen: []int{0, 1, 2, 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newSource(tt.items, textRep)
			if got := src.Len(); got != tt.wantLen {
				t.Errorf("Len = %d, want %d", got, tt.wantLen)
			}
			if got := string(src.Rendered()); got != tt.wantRen {
				t.Errorf("Rendered = %q, want %q", got, tt.wantRen)
			}
			var got []int
			for ich := 0; ich <= src.Len(); ich++ {
				got = append(got, src.LogToRen(ich))
			}
			if diff := cmp.Diff(tt.logToRen, got); diff != "" {
				t.Errorf("LogToRen (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSourceRoundTrip(t *testing.T) {
	textRep := func(rich.ObjData) string { return "[*]" }
	s := rich.Plain("one ", plain).Concat(footnote("a")).Concat(rich.Plain(" two", plain))
	src := newSource([]Item{{Str: s}}, textRep)

	for ren := 0; ren <= src.RenLen(); ren++ {
		if !src.IsRenBoundary(ren) {
			continue
		}
		if got := src.LogToRen(src.RenToLog(ren)); got != ren {
			t.Errorf("LogToRen(RenToLog(%d)) = %d", ren, got)
		}
	}
	for ich := 0; ich <= src.Len(); ich++ {
		if got := src.RenToLog(src.LogToRen(ich)); got != ich {
			t.Errorf("RenToLog(LogToRen(%d)) = %d", ich, got)
		}
	}
	// Inside the expansion maps back to the object character.
	if got := src.RenToLog(6); got != 4 {
		t.Errorf("RenToLog inside expansion = %d, want 4", got)
	}
	if src.IsRenBoundary(5) {
		t.Error("offset inside expansion reported as a boundary")
	}
}

func TestSourceText(t *testing.T) {
	src := newSource([]Item{
		{Str: rich.Plain("ab", plain)},
		{Box: &Picture{}},
		{Str: rich.Plain("cd", plain)},
	}, nil)
	want := "ab" + string(rich.ObjectReplacementChar) + "cd"
	if got := src.Text().Text(); got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
	if got := string(src.LogicalRunes()); got != want {
		t.Errorf("LogicalRunes = %q", got)
	}
	if got := src.RuneAt(3); got != 'c' {
		t.Errorf("RuneAt(3) = %q", got)
	}
	if got := src.ItemAt(2); got != 1 {
		t.Errorf("ItemAt(2) = %d, want 1", got)
	}
	if got := src.Substring(1, 4).Text(); got != "b"+string(rich.ObjectReplacementChar)+"c" {
		t.Errorf("Substring = %q", got)
	}
}
