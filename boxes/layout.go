package boxes

import (
	"image"
)

// layout lays out the whole document at the root's width.
func (r *Root) layout() {
	if r.body == nil {
		return
	}
	r.layoutBox(r.body, 0, 0, r.width)
}

func (r *Root) metrics() metrics {
	return metrics{cw: r.charWidth, lh: r.lineHeight, picSize: r.pictureSize}
}

// layoutBox places b at (x, y) within width w and returns its height.
func (r *Root) layoutBox(b Box, x, y, w int) int {
	switch v := b.(type) {
	case *Pile:
		top := y
		for _, c := range v.children {
			y += r.layoutBox(c, x, y, w)
		}
		if v.Kind == PileCell && y == top {
			y += r.lineHeight
		}
		v.setRect(image.Rect(x, top, x+w, y))
		return y - top
	case *Para:
		return v.layout(x, y, w, r.metrics(), r.natural, func(e Box, at image.Point) {
			sz := r.natural(e)
			r.layoutBox(e, at.X, at.Y, sz.X)
		})
	case *Table:
		top := y
		for _, row := range v.rows {
			y += r.layoutBox(row, x, y, w)
		}
		v.setRect(image.Rect(x, top, x+w, y))
		return y - top
	case *Row:
		n := len(v.cells)
		if n == 0 {
			v.setRect(image.Rect(x, y, x+w, y))
			return 0
		}
		cw := w / n
		h := 0
		for i, c := range v.cells {
			h = max(h, r.layoutBox(c, x+i*cw, y, cw))
		}
		for i, c := range v.cells {
			c.setRect(image.Rect(x+i*cw, y, x+(i+1)*cw, y+h))
		}
		v.setRect(image.Rect(x, y, x+w, y+h))
		return h
	case *Picture:
		sz := v.Size
		if sz == (image.Point{}) {
			sz = r.pictureSize
		}
		v.setRect(image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x, y).Add(sz)})
		return sz.Y
	case *Lazy:
		h := r.lineHeight * max(len(v.items), 1)
		v.setRect(image.Rect(x, y, x+w, y+h))
		return h
	}
	return 0
}

// natural returns the size an embedded box takes when laid out without
// wrapping.
func (r *Root) natural(b Box) image.Point {
	switch v := b.(type) {
	case *Picture:
		if v.Size == (image.Point{}) {
			return r.pictureSize
		}
		return v.Size
	case *Para:
		w := 0
		for i, it := range v.src.items {
			if it.Box != nil {
				w += r.natural(it.Box).X
				continue
			}
			w += (v.src.LogToRen(v.src.mins[i]+it.Len()) - v.src.LogToRen(v.src.mins[i])) * r.charWidth
		}
		return image.Pt(max(w, r.charWidth), r.lineHeight)
	case Container:
		w := r.charWidth
		for _, c := range v.Children() {
			w = max(w, r.natural(c).X)
		}
		h := r.layoutBox(b, 0, 0, w)
		return image.Pt(w, h)
	}
	return image.Pt(r.charWidth, r.lineHeight)
}
