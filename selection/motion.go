package selection

import (
	"github.com/rjkroege/richedit/boxes"
	"github.com/rjkroege/richedit/rootsite"
)

// prepareToMove commits any pending edit before the selection moves.
// When the commit is refused the motion must not happen.
func (s *TextSelection) prepareToMove() (bool, error) {
	if s.edit == nil {
		return true, nil
	}
	return s.Commit()
}

// move runs a motion. Plain motions start from the insertion point and
// collapse the selection; extending motions move only the end point.
// A motion whose commit is refused reports true so that the caller does
// not reposition the selection itself.
func (s *TextSelection) move(g rootsite.Graphics, extend, keepColumn bool, m func(from pos) (pos, bool)) (bool, error) {
	if !s.IsValid() {
		return false, ErrInvalidSelection
	}
	if ok, err := s.prepareToMove(); !ok || err != nil {
		return true, err
	}
	if !s.IsValid() {
		return false, ErrInvalidSelection
	}
	from := s.endPos()
	to, ok := m(from)
	if !ok {
		return false, nil
	}
	if !keepColumn {
		s.xdIP = -1
	}
	if extend {
		if boxes.MoveablePileOf(to.para) != boxes.MoveablePileOf(s.anchor) {
			return false, nil
		}
		s.setEnd(to)
	} else {
		s.setIP(to)
	}
	kind := rootsite.SamePara
	if to.para != from.para {
		kind = rootsite.DiffPara
	}
	s.changed(kind)
	return true, nil
}

// collapse turns a range into an insertion point at its start or end.
func (s *TextSelection) collapse(toEnd bool) (bool, error) {
	if ok, err := s.prepareToMove(); !ok || err != nil {
		return true, err
	}
	p := s.minPos()
	p.assoc = false
	if toEnd {
		p = s.maxPos()
		p.assoc = true
	}
	kind := rootsite.SamePara
	if s.end != nil {
		kind = rootsite.DiffPara
	}
	s.setIP(p)
	s.xdIP = -1
	s.changed(kind)
	return true, nil
}

// charMotion moves one character forward or backward in reading order.
func (s *TextSelection) charMotion(g rootsite.Graphics, fwd, extend bool) (bool, error) {
	if !s.IsValid() {
		return false, ErrInvalidSelection
	}
	if !extend && s.IsRange() {
		return s.collapse(fwd)
	}
	return s.move(g, extend, false, func(from pos) (pos, bool) {
		return s.stepLogical(g, from, fwd, !extend)
	})
}

// forwardFor reports whether the key toward the right edge of the
// screen moves forward in the paragraph of the insertion point.
func (s *TextSelection) forwardFor(right bool) bool {
	if s.EndPara().RightToLeft() {
		return !right
	}
	return right
}

// RightArrow moves one character toward the right edge in reading
// order: forward in left-to-right paragraphs, backward otherwise.
func (s *TextSelection) RightArrow(g rootsite.Graphics, extend bool) (bool, error) {
	if !s.IsValid() {
		return false, ErrInvalidSelection
	}
	return s.charMotion(g, s.forwardFor(true), extend)
}

// LeftArrow is RightArrow toward the left edge.
func (s *TextSelection) LeftArrow(g rootsite.Graphics, extend bool) (bool, error) {
	if !s.IsValid() {
		return false, ErrInvalidSelection
	}
	return s.charMotion(g, s.forwardFor(false), extend)
}

// ForwardChar moves to the next character in reading order.
func (s *TextSelection) ForwardChar(g rootsite.Graphics, extend bool) (bool, error) {
	return s.charMotion(g, true, extend)
}

// BackwardChar moves to the previous character in reading order.
func (s *TextSelection) BackwardChar(g rootsite.Graphics, extend bool) (bool, error) {
	return s.charMotion(g, false, extend)
}

// extendAnchor returns the anchor that a physical motion must respect,
// or nil when the motion collapses the selection.
func (s *TextSelection) extendAnchor(extend bool) *pos {
	if !extend {
		return nil
	}
	a := s.anchorPos()
	return &a
}

// PhysicalArrow moves one position left or right on the screen,
// whatever the direction of the text.
func (s *TextSelection) PhysicalArrow(g rootsite.Graphics, right, extend bool) (bool, error) {
	return s.move(g, extend, false, func(from pos) (pos, bool) {
		return s.stepPhysical(g, from, right, !extend, s.extendAnchor(extend))
	})
}

// ControlPhysicalArrow is word motion in screen direction. It is not
// supported; callers fall back to logical word motion.
func (s *TextSelection) ControlPhysicalArrow(g rootsite.Graphics, right, extend bool) (bool, error) {
	return false, nil
}

// UpArrow moves to the line above, keeping to the same column across
// repeated vertical moves.
func (s *TextSelection) UpArrow(g rootsite.Graphics, extend bool) (bool, error) {
	return s.move(g, extend, true, func(from pos) (pos, bool) {
		return s.stepVertical(g, from, false, !extend)
	})
}

// DownArrow moves to the line below.
func (s *TextSelection) DownArrow(g rootsite.Graphics, extend bool) (bool, error) {
	return s.move(g, extend, true, func(from pos) (pos, bool) {
		return s.stepVertical(g, from, true, !extend)
	})
}

// NextWord moves to the start of the next word.
func (s *TextSelection) NextWord(g rootsite.Graphics, extend bool) (bool, error) {
	return s.move(g, extend, false, func(from pos) (pos, bool) {
		return s.stepWord(g, from, true, !extend)
	})
}

// PrevWord moves to the start of the word before the insertion point.
func (s *TextSelection) PrevWord(g rootsite.Graphics, extend bool) (bool, error) {
	return s.move(g, extend, false, func(from pos) (pos, bool) {
		return s.stepWord(g, from, false, !extend)
	})
}

// ParaDown moves to the first editable position of the next paragraph.
func (s *TextSelection) ParaDown(g rootsite.Graphics, extend bool) (bool, error) {
	return s.move(g, extend, false, func(from pos) (pos, bool) {
		return s.stepPara(g, from, true)
	})
}

// ParaUp moves to the first editable position of the previous paragraph.
func (s *TextSelection) ParaUp(g rootsite.Graphics, extend bool) (bool, error) {
	return s.move(g, extend, false, func(from pos) (pos, bool) {
		return s.stepPara(g, from, false)
	})
}

// Home moves to the logical start of the line.
func (s *TextSelection) Home(g rootsite.Graphics, extend bool) (bool, error) {
	return s.move(g, extend, false, func(from pos) (pos, bool) {
		return lineEdge(g, from, false)
	})
}

// End moves to the logical end of the line.
func (s *TextSelection) End(g rootsite.Graphics, extend bool) (bool, error) {
	return s.move(g, extend, false, func(from pos) (pos, bool) {
		return lineEdge(g, from, true)
	})
}

// PhysicalHome moves to the left end of the line.
func (s *TextSelection) PhysicalHome(g rootsite.Graphics, extend bool) (bool, error) {
	return s.move(g, extend, false, func(from pos) (pos, bool) {
		return physicalLineEdge(g, from, false, s.extendAnchor(extend))
	})
}

// PhysicalEnd moves to the right end of the line.
func (s *TextSelection) PhysicalEnd(g rootsite.Graphics, extend bool) (bool, error) {
	return s.move(g, extend, false, func(from pos) (pos, bool) {
		return physicalLineEdge(g, from, true, s.extendAnchor(extend))
	})
}

// DocHome moves to the first editable position of the document.
func (s *TextSelection) DocHome(g rootsite.Graphics, extend bool) (bool, error) {
	return s.move(g, extend, false, func(pos) (pos, bool) {
		return s.docEdge(g, false)
	})
}

// DocEnd moves to the last editable position of the document.
func (s *TextSelection) DocEnd(g rootsite.Graphics, extend bool) (bool, error) {
	return s.move(g, extend, false, func(pos) (pos, bool) {
		return s.docEdge(g, true)
	})
}

// TabForward moves to the start of the next field.
func (s *TextSelection) TabForward(g rootsite.Graphics) (bool, error) {
	return s.move(g, false, false, func(from pos) (pos, bool) {
		return s.stepField(g, from, true)
	})
}

// TabBackward moves to the start of the previous field.
func (s *TextSelection) TabBackward(g rootsite.Graphics) (bool, error) {
	return s.move(g, false, false, func(from pos) (pos, bool) {
		return s.stepField(g, from, false)
	})
}
