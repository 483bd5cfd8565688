package selection

import (
	"image"

	"github.com/rjkroege/richedit/boxes"
	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/rootsite"
	"github.com/rjkroege/richedit/sda"
)

// isValidIP reports whether the layout accepts an insertion point at
// logical offset ich of p.
func isValidIP(g rootsite.Graphics, p *boxes.Para, ich int) bool {
	if p == nil || ich < 0 || ich > p.Len() {
		return false
	}
	src := p.Source()
	ren := src.LogToRen(ich)
	if !src.IsRenBoundary(ren) {
		return false
	}
	for _, assoc := range []bool{false, true} {
		if sb := p.SegmentAt(ren, assoc); sb != nil && sb.Segment().IsValidInsertionPoint(g, ren) {
			return true
		}
	}
	return false
}

// nextIP returns the first valid insertion point after ich in p.
func nextIP(g rootsite.Graphics, p *boxes.Para, ich int) (int, bool) {
	text := p.Source().LogicalRunes()
	for n := ich; ; {
		m := rich.NextGrapheme(text, n)
		if m <= n {
			return ich, false
		}
		n = m
		if isValidIP(g, p, n) {
			return n, true
		}
	}
}

// prevIP returns the last valid insertion point before ich in p.
func prevIP(g rootsite.Graphics, p *boxes.Para, ich int) (int, bool) {
	text := p.Source().LogicalRunes()
	for n := ich; n > 0; {
		m := rich.PrevGrapheme(text, n)
		if m >= n {
			break
		}
		n = m
		if isValidIP(g, p, n) {
			return n, true
		}
	}
	return ich, false
}

// IsEditable reports whether typing at ich of p would edit a property.
func IsEditable(p *boxes.Para, ich int, assocPrev bool) bool {
	return boxes.EditableSubstringAt(p, ich, ich, assocPrev).Status == boxes.Editable
}

// IsEditableEither is IsEditable for either association.
func IsEditableEither(p *boxes.Para, ich int) bool {
	return IsEditable(p, ich, false) || IsEditable(p, ich, true)
}

// settle returns p, with its association flipped if that is what makes
// it editable, or false when it is not editable either way.
func settle(p pos) (pos, bool) {
	if IsEditable(p.para, p.ich, p.assoc) {
		return p, true
	}
	if IsEditable(p.para, p.ich, !p.assoc) {
		p.assoc = !p.assoc
		return p, true
	}
	return p, false
}

func (s *TextSelection) adjacentPara(p *boxes.Para, forward bool) *boxes.Para {
	if forward {
		return boxes.NextPara(p, true)
	}
	return boxes.PrevPara(p, true)
}

// stepLogical moves one character in reading order. When needEditable
// is set positions outside editable text are skipped.
func (s *TextSelection) stepLogical(g rootsite.Graphics, from pos, forward, needEditable bool) (pos, bool) {
	p, ich := from.para, from.ich
	crossed := 0
	for {
		var cand pos
		var n int
		var ok bool
		if forward {
			n, ok = nextIP(g, p, ich)
		} else {
			n, ok = prevIP(g, p, ich)
		}
		if ok {
			ich = n
			cand = pos{p, n, forward}
		} else {
			crossed++
			if crossed > s.cfg.maxParas {
				return from, false
			}
			q := s.adjacentPara(p, forward)
			if q == nil {
				return from, false
			}
			p = q
			if forward {
				ich = 0
			} else {
				ich = p.Len()
			}
			if !isValidIP(g, p, ich) {
				continue
			}
			cand = pos{p, ich, !forward}
		}
		if !needEditable {
			return cand, true
		}
		if c, ok := settle(cand); ok {
			return c, true
		}
	}
}

func lineIndex(ln []boxes.Box, b boxes.Box) int {
	for i, c := range ln {
		if c == b {
			return i
		}
	}
	return -1
}

// physicalOnce moves one position left or right on the screen. A
// non-nil anchor marks from as the moving end of a range; within the
// anchor's paragraph the segment then decides where that end goes.
func physicalOnce(g rootsite.Graphics, from pos, right bool, anchor *pos) (pos, bool) {
	p := from.para
	src := p.Source()
	ren := src.LogToRen(from.ich)
	sb := p.SegmentAt(ren, from.assoc)
	if sb == nil {
		return from, false
	}
	if anchor != nil && anchor.para == p {
		if n, ok := sb.Segment().ExtendSelectionPosition(g, ren, from.assoc, right, src.LogToRen(anchor.ich)); ok {
			return pos{p, src.RenToLog(n), n > ren}, true
		}
	} else if n, a, ok := sb.Segment().ArrowKeyPosition(g, ren, from.assoc, right); ok {
		return pos{p, src.RenToLog(n), a}, true
	}
	lines := p.Lines()
	li := sb.Line()
	ln := lines[li].Boxes
	d := 1
	if !right {
		d = -1
	}
	crossed := false
	for j := lineIndex(ln, sb) + d; j >= 0 && j < len(ln); j += d {
		nb, ok := ln[j].(*boxes.StringBox)
		if !ok {
			crossed = true
			continue
		}
		seg := nb.Segment()
		// The edge of seg facing the way we came.
		edge := seg.Min()
		if right == seg.RightToLeft() {
			edge = seg.Lim()
		}
		if (crossed || edge != ren) && seg.IsValidInsertionPoint(g, edge) {
			return pos{p, src.RenToLog(edge), edge > seg.Min()}, true
		}
		if n, a, ok := seg.ArrowKeyPosition(g, edge, edge > seg.Min(), right); ok {
			return pos{p, src.RenToLog(n), a}, true
		}
	}
	forward := right != p.RightToLeft()
	if forward {
		if li+1 < len(lines) {
			return pos{p, src.RenToLog(lines[li+1].RenMin), false}, true
		}
		q := boxes.NextPara(p, true)
		if q == nil {
			return from, false
		}
		return pos{q, 0, false}, true
	}
	if li > 0 {
		return pos{p, src.RenToLog(lines[li-1].RenLim), true}, true
	}
	q := boxes.PrevPara(p, true)
	if q == nil {
		return from, false
	}
	return pos{q, q.Len(), true}, true
}

// stepPhysical moves one position on the screen, skipping positions
// outside editable text when needEditable is set. anchor is as for
// physicalOnce.
func (s *TextSelection) stepPhysical(g rootsite.Graphics, from pos, right, needEditable bool, anchor *pos) (pos, bool) {
	cur := from
	crossed := 0
	for {
		next, ok := physicalOnce(g, cur, right, anchor)
		if !ok {
			return from, false
		}
		if next.para != cur.para {
			crossed++
			if crossed > s.cfg.maxParas {
				return from, false
			}
		}
		if !isValidIP(g, next.para, next.ich) {
			cur = next
			continue
		}
		if !needEditable {
			return next, true
		}
		if c, ok := settle(next); ok {
			return c, true
		}
		cur = next
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// stepVertical moves to the line above or below, aiming for column
// s.xdIP, which it sets if unset.
func (s *TextSelection) stepVertical(g rootsite.Graphics, from pos, down, needEditable bool) (pos, bool) {
	r := s.root
	cur, ok := from.para.PositionOfIP(from.ich, from.assoc)
	if !ok {
		return from, false
	}
	if s.xdIP < 0 {
		s.xdIP = cur.Min.X
	}
	x := s.xdIP
	step := s.cfg.lineStep
	start := func(c image.Rectangle) int {
		if down {
			return c.Max.Y
		}
		return c.Min.Y - 1
	}
	y := start(cur)
	for y >= 0 && y < r.Body().Rect().Max.Y {
		pt := image.Pt(x, y)
		if lz := r.LazyAt(pt); lz != nil {
			if _, ok := lz.Expand(); ok {
				// Expansion moves things; start again from where we are.
				if cur, ok = from.para.PositionOfIP(from.ich, from.assoc); !ok {
					return from, false
				}
				y = start(cur)
				continue
			}
		}
		q, ich, assoc, ok := r.PointToPosition(pt)
		if ok {
			cand, ok := q.PositionOfIP(ich, assoc)
			if ok && cand.Min.Y != cur.Min.Y && (cand.Min.Y > cur.Min.Y) == down {
				to := pos{q, ich, assoc}
				if abs(cand.Min.X-x) > s.cfg.xSlop {
					// Tables and columns: the next line down may be closer.
					if q2, ich2, a2, ok := r.PointToPosition(image.Pt(x, start(cand))); ok {
						if c2, ok := q2.PositionOfIP(ich2, a2); ok && c2.Min.Y != cand.Min.Y && abs(c2.Min.X-x) < abs(cand.Min.X-x) {
							to, cand = pos{q2, ich2, a2}, c2
						}
					}
				}
				if !needEditable {
					return to, true
				}
				if c, ok := settle(to); ok {
					return c, true
				}
				cur = cand
				y = start(cur)
				continue
			}
		}
		if down {
			y += step
		} else {
			y -= step
		}
	}
	return from, false
}

// lineEdge returns the logical start or end of the line showing from.
func lineEdge(g rootsite.Graphics, from pos, end bool) (pos, bool) {
	p := from.para
	src := p.Source()
	lines := p.Lines()
	if len(lines) == 0 {
		return from, false
	}
	li := p.LineOf(src.LogToRen(from.ich), from.assoc)
	ln := lines[li]
	lo, hi := src.RenToLog(ln.RenMin), src.RenToLog(ln.RenLim)
	if end {
		ich := hi
		if ich > lo && li+1 < len(lines) {
			// Stay before the break or the space the line wrapped at.
			if r := src.RuneAt(ich - 1); r == '\n' || r == '\u2028' || r == ' ' {
				ich--
			}
		}
		for ich > lo && !isValidIP(g, p, ich) {
			ich--
		}
		return pos{p, ich, ich > lo}, true
	}
	ich := lo
	for ich < hi && !isValidIP(g, p, ich) {
		ich++
	}
	return pos{p, ich, false}, true
}

// physicalLineEdge walks left or right along the line showing from for
// as long as the layout lets it.
func physicalLineEdge(g rootsite.Graphics, from pos, right bool, anchor *pos) (pos, bool) {
	p := from.para
	src := p.Source()
	li := p.LineOf(src.LogToRen(from.ich), from.assoc)
	cur := from
	for i, n := 0, src.RenLen()+2; i < n; i++ {
		next, ok := physicalOnce(g, cur, right, anchor)
		if !ok || next.para != p || p.LineOf(src.LogToRen(next.ich), next.assoc) != li {
			break
		}
		cur = next
	}
	return cur, cur != from
}

func firstEditableIn(g rootsite.Graphics, p *boxes.Para) (pos, bool) {
	for ich := 0; ich <= p.Len(); ich++ {
		if !isValidIP(g, p, ich) {
			continue
		}
		if c, ok := settle(pos{p, ich, false}); ok {
			return c, true
		}
	}
	return pos{}, false
}

func lastEditableIn(g rootsite.Graphics, p *boxes.Para) (pos, bool) {
	for ich := p.Len(); ich >= 0; ich-- {
		if !isValidIP(g, p, ich) {
			continue
		}
		if c, ok := settle(pos{p, ich, ich > 0}); ok {
			return c, true
		}
	}
	return pos{}, false
}

// stepPara finds the first editable position of the paragraph before or
// after from's.
func (s *TextSelection) stepPara(g rootsite.Graphics, from pos, down bool) (pos, bool) {
	p := from.para
	for i, n := 0, s.cfg.maxParas; i < n; i++ {
		p = s.adjacentPara(p, down)
		if p == nil {
			return from, false
		}
		if c, ok := firstEditableIn(g, p); ok {
			return c, true
		}
	}
	return from, false
}

// docEdge finds the first or last editable position of the document.
func (s *TextSelection) docEdge(g rootsite.Graphics, end bool) (pos, bool) {
	body := s.root.Body()
	if body == nil {
		return pos{}, false
	}
	var p *boxes.Para
	if end {
		p = boxes.LastPara(body, true)
	} else {
		p = boxes.FirstPara(body, true)
	}
	for i, n := 0, s.cfg.maxParas; i < n; i++ {
		if p == nil {
			return pos{}, false
		}
		var c pos
		var ok bool
		if end {
			c, ok = lastEditableIn(g, p)
		} else {
			c, ok = firstEditableIn(g, p)
		}
		if ok {
			return c, true
		}
		p = s.adjacentPara(p, !end)
	}
	return pos{}, false
}

type fieldKey struct {
	hvo sda.Hvo
	tag sda.Tag
	ws  int
}

func fieldAt(p *boxes.Para, ich int, assoc bool) (boxes.EditContext, fieldKey, bool) {
	res := boxes.EditableSubstringAt(p, ich, ich, assoc)
	if res.Status != boxes.Editable {
		return boxes.EditContext{}, fieldKey{}, false
	}
	ref := res.Ctx.Ref
	return res.Ctx, fieldKey{ref.Hvo, ref.Tag, ref.Ws}, true
}

// stepField finds the start of the next (or previous) editable field,
// a field being the text of one property. It looks one character at a
// time.
func (s *TextSelection) stepField(g rootsite.Graphics, from pos, forward bool) (pos, bool) {
	_, curKey, inField := fieldAt(from.para, from.ich, from.assoc)
	p, ich := from.para, from.ich
	crossed := 0
	for {
		if forward {
			ich++
		} else {
			ich--
		}
		if ich < 0 || ich > p.Len() {
			crossed++
			if crossed > s.cfg.maxParas {
				return from, false
			}
			if p = s.adjacentPara(p, forward); p == nil {
				return from, false
			}
			if forward {
				ich = 0
			} else {
				ich = p.Len()
			}
		}
		ctx, key, ok := fieldAt(p, ich, !forward)
		if !ok || (inField && key == curKey) {
			continue
		}
		if isValidIP(g, p, ctx.IchMin) {
			return pos{p, ctx.IchMin, false}, true
		}
	}
}
