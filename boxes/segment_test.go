package boxes

import (
	"image"
	"testing"

	"github.com/rjkroege/richedit/rich"
)

func testSegment(text string, rtl bool) *textSegment {
	src := newSource([]Item{{Str: rich.Plain(text, plain)}}, nil)
	n := src.RenLen()
	return newTextSegment(src, graphemeStarts(src.Rendered()), 0, n, rtl, image.Rect(0, 0, n*10, 20), 10)
}

func TestArrowKeyPositionSkipsClusters(t *testing.T) {
	seg := testSegment("aébc", false)
	if n, a, ok := seg.ArrowKeyPosition(nil, 1, false, true); n != 3 || !a || !ok {
		t.Errorf("right from 1 = %d, %v, %v; want 3, true, true", n, a, ok)
	}
	if n, a, ok := seg.ArrowKeyPosition(nil, 3, true, false); n != 1 || a || !ok {
		t.Errorf("left from 3 = %d, %v, %v; want 1, false, true", n, a, ok)
	}
	if _, _, ok := seg.ArrowKeyPosition(nil, 5, true, true); ok {
		t.Errorf("right from the end stayed in the segment")
	}
}

func TestExtendSelectionPosition(t *testing.T) {
	tests := []struct {
		name   string
		rtl    bool
		ich    int
		right  bool
		anchor int
		want   int
		wantOK bool
	}{
		{name: "away from anchor", ich: 1, right: true, anchor: 0, want: 3, wantOK: true},
		{name: "short of anchor", ich: 0, right: true, anchor: 2, want: 1, wantOK: true},
		{name: "stops on anchor going right", ich: 1, right: true, anchor: 2, want: 2, wantOK: true},
		{name: "stops on anchor going left", ich: 3, right: false, anchor: 2, want: 2, wantOK: true},
		{name: "leaves anchor", ich: 4, right: false, anchor: 4, want: 3, wantOK: true},
		{name: "segment end", ich: 5, right: true, anchor: 0, want: 5, wantOK: false},
		{name: "right to left moves back", rtl: true, ich: 3, right: true, anchor: 0, want: 1, wantOK: true},
		{name: "right to left stops on anchor", rtl: true, ich: 3, right: true, anchor: 2, want: 2, wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg := testSegment("aébc", tt.rtl)
			n, ok := seg.ExtendSelectionPosition(nil, tt.ich, false, tt.right, tt.anchor)
			if n != tt.want || ok != tt.wantOK {
				t.Errorf("ExtendSelectionPosition(%d, right=%v, anchor %d) = %d, %v; want %d, %v",
					tt.ich, tt.right, tt.anchor, n, ok, tt.want, tt.wantOK)
			}
		})
	}
}
