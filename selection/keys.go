package selection

import (
	"github.com/rjkroege/richedit/rootsite"
)

// OnExtendedKey performs the motion bound to key. It reports whether the
// key was handled; page keys are left to the host, which scrolls.
func (s *TextSelection) OnExtendedKey(g rootsite.Graphics, key Key, ss ShiftStatus) (bool, error) {
	if !s.IsValid() {
		return false, ErrInvalidSelection
	}
	extend := ss&Shift != 0
	ctrl := ss&Control != 0
	switch key {
	case KeyLeft, KeyRight:
		right := key == KeyRight
		if ctrl {
			if !s.cfg.logicalArrows {
				if ok, err := s.ControlPhysicalArrow(g, right, extend); ok || err != nil {
					return ok, err
				}
			}
			if s.forwardFor(right) {
				return s.NextWord(g, extend)
			}
			return s.PrevWord(g, extend)
		}
		if !s.cfg.logicalArrows {
			return s.PhysicalArrow(g, right, extend)
		}
		if right {
			return s.RightArrow(g, extend)
		}
		return s.LeftArrow(g, extend)
	case KeyUp:
		if ctrl {
			return s.ParaUp(g, extend)
		}
		return s.UpArrow(g, extend)
	case KeyDown:
		if ctrl {
			return s.ParaDown(g, extend)
		}
		return s.DownArrow(g, extend)
	case KeyHome:
		switch {
		case ctrl:
			return s.DocHome(g, extend)
		case s.cfg.logicalArrows:
			return s.Home(g, extend)
		}
		return s.PhysicalHome(g, extend)
	case KeyEnd:
		switch {
		case ctrl:
			return s.DocEnd(g, extend)
		case s.cfg.logicalArrows:
			return s.End(g, extend)
		}
		return s.PhysicalEnd(g, extend)
	case KeyTab:
		if extend {
			return s.TabBackward(g)
		}
		return s.TabForward(g)
	}
	return false, nil
}
