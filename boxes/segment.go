package boxes

import (
	"image"

	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/rootsite"
)

// Segment answers geometry and navigation questions about the part of a
// paragraph shown by one StringBox. All offsets are rendered offsets
// relative to the start of the paragraph.
type Segment interface {
	// Min and Lim bound the rendered offsets the segment shows.
	Min() int
	Lim() int
	RightToLeft() bool
	// IsValidInsertionPoint reports whether an insertion point may sit at ich.
	IsValidInsertionPoint(g rootsite.Graphics, ich int) bool
	// ArrowKeyPosition moves one position in the physical direction
	// given by right. It returns false when the move would leave the
	// segment.
	ArrowKeyPosition(g rootsite.Graphics, ich int, assocPrev, right bool) (int, bool, bool)
	// ExtendSelectionPosition is ArrowKeyPosition for the moving end of
	// a range anchored at ichAnchor. The end never steps over the anchor,
	// so a range collapses before it changes direction.
	ExtendSelectionPosition(g rootsite.Graphics, ich int, assocPrev, right bool, ichAnchor int) (int, bool)
	// PositionsOfIP returns the caret rectangle for ich.
	PositionsOfIP(g rootsite.Graphics, ich int, assocPrev bool) (image.Rectangle, bool)
	// PointToChar returns the insertion point nearest x.
	PointToChar(g rootsite.Graphics, x int) (int, bool)
}

// textSegment is the fixed-pitch Segment used by the built-in layout.
type textSegment struct {
	src      *Source
	starts   []int // grapheme starts of the whole rendered paragraph
	min, lim int
	rtl      bool
	rect     image.Rectangle
	cw       int
}

func newTextSegment(src *Source, starts []int, min, lim int, rtl bool, r image.Rectangle, cw int) *textSegment {
	return &textSegment{src: src, starts: starts, min: min, lim: lim, rtl: rtl, rect: r, cw: cw}
}

func (s *textSegment) Min() int          { return s.min }
func (s *textSegment) Lim() int          { return s.lim }
func (s *textSegment) RightToLeft() bool { return s.rtl }

func (s *textSegment) IsValidInsertionPoint(_ rootsite.Graphics, ich int) bool {
	if ich < s.min || ich > s.lim {
		return false
	}
	if !s.src.IsRenBoundary(ich) {
		return false
	}
	return s.isGraphemeStart(ich)
}

func (s *textSegment) isGraphemeStart(ich int) bool {
	for _, st := range s.starts {
		if st == ich {
			return true
		}
		if st > ich {
			return false
		}
	}
	return false
}

func (s *textSegment) step(ich int, forward bool) (int, bool) {
	if forward {
		for n := ich + 1; n <= s.lim; n++ {
			if s.IsValidInsertionPoint(nil, n) {
				return n, true
			}
		}
		return ich, false
	}
	for n := ich - 1; n >= s.min; n-- {
		if s.IsValidInsertionPoint(nil, n) {
			return n, true
		}
	}
	return ich, false
}

func (s *textSegment) ArrowKeyPosition(g rootsite.Graphics, ich int, assocPrev, right bool) (int, bool, bool) {
	forward := right != s.rtl
	n, ok := s.step(ich, forward)
	if !ok {
		return ich, assocPrev, false
	}
	return n, forward, true
}

func (s *textSegment) ExtendSelectionPosition(g rootsite.Graphics, ich int, assocPrev, right bool, ichAnchor int) (int, bool) {
	n, ok := s.step(ich, right != s.rtl)
	if !ok {
		return ich, false
	}
	if (ich < ichAnchor && ichAnchor < n) || (n < ichAnchor && ichAnchor < ich) {
		n = ichAnchor
	}
	return n, true
}

// xOf returns the x coordinate of the boundary before rendered offset ich.
func (s *textSegment) xOf(ich int) int {
	dx := (ich - s.min) * s.cw
	if s.rtl {
		return s.rect.Max.X - dx
	}
	return s.rect.Min.X + dx
}

func (s *textSegment) PositionsOfIP(_ rootsite.Graphics, ich int, assocPrev bool) (image.Rectangle, bool) {
	if ich < s.min || ich > s.lim {
		return image.Rectangle{}, false
	}
	x := s.xOf(ich)
	return image.Rect(x, s.rect.Min.Y, x+1, s.rect.Max.Y), true
}

func (s *textSegment) PointToChar(_ rootsite.Graphics, x int) (int, bool) {
	var dx int
	if s.rtl {
		dx = s.rect.Max.X - x
	} else {
		dx = x - s.rect.Min.X
	}
	k := (dx + s.cw/2) / max(s.cw, 1)
	ich := min(max(s.min+k, s.min), s.lim)
	for ich > s.min && !s.IsValidInsertionPoint(nil, ich) {
		ich--
	}
	return ich, ich > s.min
}

// graphemeStarts computes cluster starts for a rendered paragraph.
func graphemeStarts(text []rune) []int {
	return rich.GraphemeStarts(text)
}
