package selection

import (
	"github.com/rjkroege/richedit/rootsite"
)

// caretY returns the top of the caret at p.
func caretY(p pos) (int, bool) {
	r, ok := p.para.PositionOfIP(p.ich, p.assoc)
	if !ok {
		return 0, false
	}
	return r.Min.Y, true
}

// FindClosestEditableIP returns an editable insertion point near the end
// of s: one on the same row when there is one, otherwise the nearest
// within the configured distance. The search gives up when its time
// budget runs out, so a click in a large read-only document stays quick.
// The result is not installed.
func (s *TextSelection) FindClosestEditableIP(g rootsite.Graphics) (*TextSelection, bool) {
	if !s.IsValid() {
		return nil, false
	}
	start := s.endAt(true)
	if p, ok := settle(start); ok {
		return s.derive(p.para, p.ich, p.ich, p.assoc, nil), true
	}
	y0, ok := caretY(start)
	if !ok {
		return nil, false
	}
	deadline := s.cfg.now().Add(s.cfg.closestBudget)

	type walker struct {
		at   pos
		fwd  bool
		done bool
	}
	walkers := []*walker{{at: start, fwd: true}, {at: start}}
	var best pos
	bestD := -1
	for !walkers[0].done || !walkers[1].done {
		if s.cfg.now().After(deadline) {
			break
		}
		for _, pr := range walkers {
			if pr.done {
				continue
			}
			n, ok := s.stepLogical(g, pr.at, pr.fwd, false)
			if !ok {
				pr.done = true
				continue
			}
			pr.at = n
			y, ok := caretY(n)
			if !ok {
				continue
			}
			d := abs(y - y0)
			if d > s.cfg.closestDist {
				pr.done = true
				continue
			}
			c, ok := settle(n)
			if !ok {
				continue
			}
			if d == 0 {
				return s.derive(c.para, c.ich, c.ich, c.assoc, nil), true
			}
			// Anything further this way is no closer.
			pr.done = true
			if bestD < 0 || d < bestD {
				best, bestD = c, d
			}
		}
	}
	if bestD < 0 {
		return nil, false
	}
	return s.derive(best.para, best.ich, best.ich, best.assoc, nil), true
}
