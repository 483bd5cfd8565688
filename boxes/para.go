package boxes

import (
	"image"
	"sort"

	"github.com/rjkroege/richedit/rich"
)

// Line is one laid-out line of a paragraph.
type Line struct {
	Rect   image.Rectangle
	RenMin int
	RenLim int
	// Boxes are the string boxes and embedded boxes on the line, left
	// to right.
	Boxes []Box
}

// Para is a paragraph: a Source laid out into lines.
type Para struct {
	base
	Props    rich.ParaProps
	Notifier *Notifier
	src      *Source
	lines    []Line
	boxes    []Box
	starts   []int
	dead     bool
}

// Children implements Container.
func (p *Para) Children() []Box { return p.boxes }

// Source returns the paragraph's text source.
func (p *Para) Source() *Source { return p.src }

// Lines returns the laid-out lines.
func (p *Para) Lines() []Line { return p.lines }

// Len returns the logical length of the paragraph.
func (p *Para) Len() int { return p.src.Len() }

// RightToLeft reports the paragraph direction.
func (p *Para) RightToLeft() bool { return p.Props.RightToLeft }

// IsDead reports whether the paragraph was discarded by a rebuild.
func (p *Para) IsDead() bool { return p.dead }

// HasInnerPiles reports whether the paragraph embeds piles, as an
// interlinear bundle does.
func (p *Para) HasInnerPiles() bool {
	for _, it := range p.src.items {
		if pl, ok := it.Box.(*Pile); ok && pl.Kind == PileInner {
			return true
		}
	}
	return false
}

// EmbeddedBoxes returns the boxes embedded in the paragraph's source.
func (p *Para) EmbeddedBoxes() []Box {
	var out []Box
	for _, it := range p.src.items {
		if it.Box != nil {
			out = append(out, it.Box)
		}
	}
	return out
}

// metrics are the fixed layout parameters.
type metrics struct {
	cw, lh  int
	picSize image.Point
}

// unit is an unbreakable piece of a line: a word or an embedded box.
type unit struct {
	min, lim int
	box      Box
	w, h     int
	hardEnd  bool
}

func (p *Para) units(m metrics, natural func(Box) image.Point) []unit {
	src := p.src
	ren := src.rendered
	boxAt := make(map[int]Box)
	for i, it := range src.items {
		if it.Box != nil {
			boxAt[src.LogToRen(src.mins[i])] = it.Box
		}
	}
	var us []unit
	for i := 0; i < len(ren); {
		if b, ok := boxAt[i]; ok {
			sz := natural(b)
			us = append(us, unit{min: i, lim: i + 1, box: b, w: sz.X, h: sz.Y})
			i++
			continue
		}
		j := i
		hard := false
		for j < len(ren) {
			if _, ok := boxAt[j]; ok {
				break
			}
			r := ren[j]
			j++
			if r == '\n' || r == '\u2028' {
				hard = true
				break
			}
			if r == ' ' || r == '\t' {
				break
			}
		}
		us = append(us, unit{min: i, lim: j, w: (j - i) * m.cw, h: m.lh, hardEnd: hard})
		i = j
	}
	return us
}

// layout places the paragraph at (x, y) within width w and returns its
// height. place lays out an embedded box at a given position.
func (p *Para) layout(x, y, w int, m metrics, natural func(Box) image.Point, place func(Box, image.Point)) int {
	p.starts = graphemeStarts(p.src.rendered)
	us := p.units(m, natural)

	var lines [][]unit
	var cur []unit
	curW := 0
	for _, u := range us {
		if len(cur) > 0 && curW+u.w > w {
			lines = append(lines, cur)
			cur, curW = nil, 0
		}
		cur = append(cur, u)
		curW += u.w
		if u.hardEnd {
			lines = append(lines, cur)
			cur, curW = nil, 0
		}
	}
	if len(cur) > 0 || len(lines) == 0 {
		lines = append(lines, cur)
	}

	p.lines = p.lines[:0]
	p.boxes = p.boxes[:0]
	top := y
	renPos := 0
	for li, lu := range lines {
		h := m.lh
		for _, u := range lu {
			h = max(h, u.h)
		}
		ln := Line{RenMin: renPos, RenLim: renPos}
		if len(lu) > 0 {
			ln.RenMin, ln.RenLim = lu[0].min, lu[len(lu)-1].lim
		}
		renPos = ln.RenLim
		ln.Rect = image.Rect(x, top, x+w, top+h)

		// Group units into text runs and boxes; every boundary gets a
		// string box so that each position on the line has a segment.
		dx := 0
		var runMin, runDx = -1, 0
		flush := func(lim int) {
			if runMin < 0 {
				return
			}
			ln.Boxes = append(ln.Boxes, p.stringBox(li, runMin, lim, x, w, runDx, top, h, m))
			runMin = -1
		}
		for _, u := range lu {
			if u.box != nil {
				flush(u.min)
				if len(ln.Boxes) == 0 || !endsAt(ln.Boxes[len(ln.Boxes)-1], u.min) {
					ln.Boxes = append(ln.Boxes, p.stringBox(li, u.min, u.min, x, w, dx, top, h, m))
				}
				bx := p.mirror(x, w, dx, u.w)
				place(u.box, image.Pt(bx, top+h-u.h))
				ln.Boxes = append(ln.Boxes, u.box)
				dx += u.w
				continue
			}
			if runMin < 0 {
				runMin, runDx = u.min, dx
			}
			dx += u.w
		}
		if runMin >= 0 {
			flush(ln.RenLim)
		} else if len(ln.Boxes) == 0 || !endsAt(ln.Boxes[len(ln.Boxes)-1], ln.RenLim) {
			ln.Boxes = append(ln.Boxes, p.stringBox(li, ln.RenLim, ln.RenLim, x, w, dx, top, h, m))
		}
		if p.Props.RightToLeft {
			for i, j := 0, len(ln.Boxes)-1; i < j; i, j = i+1, j-1 {
				ln.Boxes[i], ln.Boxes[j] = ln.Boxes[j], ln.Boxes[i]
			}
		}
		for _, b := range ln.Boxes {
			b.setParent(p)
			p.boxes = append(p.boxes, b)
		}
		p.lines = append(p.lines, ln)
		top += h
	}
	p.setRect(image.Rect(x, y, x+w, top))
	return top - y
}

func endsAt(b Box, ren int) bool {
	sb, ok := b.(*StringBox)
	return ok && sb.renLim == ren
}

// mirror returns the left edge of something dx from the paragraph's
// leading edge.
func (p *Para) mirror(x, w, dx, bw int) int {
	if p.Props.RightToLeft {
		return x + w - dx - bw
	}
	return x + dx
}

func (p *Para) stringBox(line, min, lim, x, w, dx, top, h int, m metrics) *StringBox {
	bw := (lim - min) * m.cw
	left := p.mirror(x, w, dx, bw)
	r := image.Rect(left, top, left+bw, top+h)
	sb := &StringBox{para: p, line: line, renMin: min, renLim: lim}
	sb.setRect(r)
	sb.seg = newTextSegment(p.src, p.starts, min, lim, p.Props.RightToLeft, r, m.cw)
	return sb
}

// SegmentAt returns the string box showing rendered offset ren. At a
// line break assocPrev selects the earlier line.
func (p *Para) SegmentAt(ren int, assocPrev bool) *StringBox {
	var found *StringBox
	for li := range p.lines {
		for _, b := range p.lines[li].Boxes {
			sb, ok := b.(*StringBox)
			if !ok || ren < sb.renMin || ren > sb.renLim {
				continue
			}
			if found == nil {
				found = sb
				continue
			}
			if found.line != sb.line && !assocPrev {
				return sb
			}
			if found.line == sb.line && found.renMin == found.renLim && sb.renMin < sb.renLim {
				found = sb
			}
		}
	}
	return found
}

// StringBoxes returns the string boxes in logical order.
func (p *Para) StringBoxes() []*StringBox {
	var out []*StringBox
	for _, b := range p.boxes {
		if sb, ok := b.(*StringBox); ok {
			out = append(out, sb)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].renMin != out[j].renMin {
			return out[i].renMin < out[j].renMin
		}
		return out[i].line < out[j].line
	})
	return out
}

// LineOf returns the index of the line showing rendered offset ren.
func (p *Para) LineOf(ren int, assocPrev bool) int {
	if sb := p.SegmentAt(ren, assocPrev); sb != nil {
		return sb.line
	}
	return 0
}

// PositionOfIP returns the caret rectangle of logical offset ich.
func (p *Para) PositionOfIP(ich int, assocPrev bool) (image.Rectangle, bool) {
	ren := p.src.LogToRen(ich)
	sb := p.SegmentAt(ren, assocPrev)
	if sb == nil {
		return image.Rectangle{}, false
	}
	return sb.seg.PositionsOfIP(nil, ren, assocPrev)
}

// hit returns the logical position in p nearest pt, descending into
// embedded piles that contain pt.
func (p *Para) hit(pt image.Point) (*Para, int, bool) {
	if len(p.lines) == 0 {
		return p, 0, false
	}
	li := len(p.lines) - 1
	for i, ln := range p.lines {
		if pt.Y < ln.Rect.Max.Y {
			li = i
			break
		}
	}
	ln := p.lines[li]
	var target Box
	for _, b := range ln.Boxes {
		r := b.Rect()
		if pt.X >= r.Min.X && pt.X < r.Max.X {
			target = b
			break
		}
	}
	if target == nil && len(ln.Boxes) > 0 {
		if pt.X < ln.Boxes[0].Rect().Min.X {
			target = ln.Boxes[0]
		} else {
			target = ln.Boxes[len(ln.Boxes)-1]
		}
	}
	switch b := target.(type) {
	case *StringBox:
		ren, assoc := b.seg.PointToChar(nil, pt.X)
		return p, p.src.RenToLog(ren), assoc
	case Container:
		if pt.In(b.Rect()) {
			if q, ich, assoc, ok := hitIn(b, pt); ok {
				return q, ich, assoc
			}
		}
		return p.hitBeside(target, pt)
	case Box:
		return p.hitBeside(target, pt)
	}
	return p, p.src.RenToLog(ln.RenMin), false
}

// hitBeside positions before or after an embedded box.
func (p *Para) hitBeside(b Box, pt image.Point) (*Para, int, bool) {
	for i, it := range p.src.items {
		if it.Box != b {
			continue
		}
		ich := p.src.mins[i]
		r := b.Rect()
		after := pt.X >= (r.Min.X+r.Max.X)/2
		if p.Props.RightToLeft {
			after = !after
		}
		if after {
			return p, ich + 1, true
		}
		return p, ich, false
	}
	return p, 0, false
}

// hitIn finds the paragraph position at pt inside container c.
func hitIn(c Container, pt image.Point) (*Para, int, bool, bool) {
	var best *Para
	bestD := -1
	var walk func(Container)
	walk = func(c Container) {
		for _, b := range c.Children() {
			switch v := b.(type) {
			case *Para:
				d := vdist(v.Rect(), pt)
				if best == nil || d < bestD {
					best, bestD = v, d
				}
			case *StringBox, *Picture, *Lazy:
			case Container:
				walk(v)
			}
		}
	}
	walk(c)
	if best == nil {
		return nil, 0, false, false
	}
	q, ich, assoc := best.hit(pt)
	return q, ich, assoc, true
}

func vdist(r image.Rectangle, pt image.Point) int {
	d := 0
	switch {
	case pt.Y < r.Min.Y:
		d = r.Min.Y - pt.Y
	case pt.Y >= r.Max.Y:
		d = pt.Y - r.Max.Y + 1
	}
	switch {
	case pt.X < r.Min.X:
		d += r.Min.X - pt.X
	case pt.X >= r.Max.X:
		d += pt.X - r.Max.X + 1
	}
	return d
}

// SetItemString shows s in place of the text of source item i without
// touching the data. Editing uses it to display text not yet committed.
func (p *Para) SetItemString(i int, s rich.String) {
	if i < 0 || i >= len(p.src.items) || p.src.items[i].Box != nil {
		return
	}
	p.src.setItemString(i, s)
	if r := RootOf(p); r != nil {
		r.Invalidate(p.Rect())
		r.layout()
		r.Invalidate(p.Rect())
	}
}

// Style returns the paragraph's named style.
func (p *Para) Style() string { return p.Props.NamedStyle }
