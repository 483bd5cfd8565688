package selection

import (
	"image"

	"github.com/rjkroege/richedit/boxes"
	"github.com/rjkroege/richedit/rootsite"
)

// before reports whether a comes before b in the document.
func before(a, b pos) bool {
	if a.para == b.para {
		return a.ich < b.ich
	}
	return boxes.Compare(a.para, b.para) < 0
}

// ExtendToPoint moves the end of the selection to the position under pt,
// as dragging the mouse does. After GrowToWord the whole word stays
// selected whichever way the selection is extended. A point in a
// different moveable pile from the anchor leaves the selection alone.
func (s *TextSelection) ExtendToPoint(g rootsite.Graphics, pt image.Point) (bool, error) {
	if !s.IsValid() {
		return false, ErrInvalidSelection
	}
	if ok, err := s.prepareToMove(); !ok || err != nil {
		return true, err
	}
	p, ich, assoc, ok := s.root.PointToPosition(pt)
	if !ok || !isValidIP(g, p, ich) {
		return false, nil
	}
	if boxes.MoveablePileOf(p) != boxes.MoveablePileOf(s.anchor) {
		return false, nil
	}
	to := pos{p, ich, assoc}
	if s.ichAnchor2 >= 0 {
		lo, hi := min(s.ichAnchor, s.ichAnchor2), max(s.ichAnchor, s.ichAnchor2)
		if before(to, pos{s.anchor, lo, false}) {
			s.ichAnchor, s.ichAnchor2 = hi, lo
		} else {
			s.ichAnchor, s.ichAnchor2 = lo, hi
			if p == s.anchor && ich < hi {
				to = pos{p, hi, true}
			}
		}
	}
	kind := rootsite.SamePara
	if p != s.EndPara() {
		kind = rootsite.DiffPara
	}
	s.setEnd(to)
	s.xdIP = -1
	s.changed(kind)
	return true, nil
}

// GrowToWord returns a selection of the word around s, or around each
// end of a range. The result remembers the word so that ExtendToPoint
// keeps it. It is not installed.
func (s *TextSelection) GrowToWord() (*TextSelection, error) {
	if !s.IsValid() {
		return nil, ErrInvalidSelection
	}
	if !s.IsRange() {
		lo, hi := s.paraWords(s.anchor).wordBounds(s.ichAnchor, s.assocPrev)
		n := s.derive(s.anchor, lo, hi, true, nil)
		if n == nil {
			return nil, ErrBadArgument
		}
		n.ichAnchor2 = hi
		return n, nil
	}
	a, b := s.minPos(), s.maxPos()
	lo, _ := s.paraWords(a.para).wordBounds(a.ich, false)
	_, hi := s.paraWords(b.para).wordBounds(b.ich, true)
	var end *boxes.Para
	if b.para != a.para {
		end = b.para
	}
	n := s.derive(a.para, lo, hi, true, end)
	if n == nil {
		return nil, ErrBadArgument
	}
	if end == nil {
		n.ichAnchor2 = hi
	}
	return n, nil
}

// ExtendToStringBoundaries widens the selection to cover the whole of
// the properties at its ends. It reports whether the selection changed.
func (s *TextSelection) ExtendToStringBoundaries() bool {
	if !s.IsValid() {
		return false
	}
	lo, hi := s.minPos(), s.maxPos()
	rlo := boxes.EditableSubstringAt(lo.para, lo.ich, lo.ich, false)
	rhi := boxes.EditableSubstringAt(hi.para, hi.ich, hi.ich, s.IsRange())
	nlo, nhi := lo.ich, hi.ich
	if rlo.Status != boxes.NotFound {
		nlo = rlo.Ctx.IchMin
	}
	if rhi.Status != boxes.NotFound {
		nhi = rhi.Ctx.IchLim
	}
	if nlo == lo.ich && nhi == hi.ich {
		return false
	}
	if ok, err := s.Commit(); !ok || err != nil {
		return false
	}
	if s.endBeforeAnchor {
		s.ichAnchor, s.ichEnd = nhi, nlo
	} else {
		s.ichAnchor, s.ichEnd = nlo, nhi
	}
	s.assocPrev = !s.endBeforeAnchor
	s.fixEndBeforeAnchor()
	s.changed(rootsite.SamePara)
	return true
}
