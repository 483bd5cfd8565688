package selection

import (
	"github.com/rjkroege/richedit/boxes"
	"github.com/rjkroege/richedit/rich"
)

// GetSelectionString returns the selected text. Paragraphs are separated
// by newlines carrying the paragraph's properties, or by tabs between
// cells of a table row. Embedded boxes other than text appear as sep.
func (s *TextSelection) GetSelectionString(sep string) (rich.String, error) {
	if !s.IsValid() {
		return rich.String{}, ErrInvalidSelection
	}
	return s.extract(sep, false), nil
}

// GetFirstParaString is GetSelectionString stopping at the end of the
// first paragraph.
func (s *TextSelection) GetFirstParaString(sep string) (rich.String, error) {
	if !s.IsValid() {
		return rich.String{}, ErrInvalidSelection
	}
	return s.extract(sep, true), nil
}

func appendTo(b *rich.Builder, t rich.String) {
	b.Replace(b.Len(), b.Len(), t)
}

// nestedIn reports whether p is embedded in a paragraph of done.
func nestedIn(p *boxes.Para, done map[*boxes.Para]bool) bool {
	for c := p.Parent(); c != nil; c = c.Parent() {
		if q, ok := c.(*boxes.Para); ok && done[q] {
			return true
		}
	}
	return false
}

func (s *TextSelection) extract(sep string, firstOnly bool) rich.String {
	lo, hi := s.minPos(), s.maxPos()
	var b rich.Builder
	done := make(map[*boxes.Para]bool)
	var prev *boxes.Para
	for p := lo.para; p != nil; p = boxes.NextPara(p, true) {
		if !nestedIn(p, done) {
			if prev != nil {
				appendTo(&b, separator(prev, p))
			}
			if p.HasInnerPiles() {
				appendTo(&b, joinLines(interlinearLines(p, sep)))
			} else {
				a, z := 0, p.Len()
				if p == lo.para {
					a = lo.ich
				}
				if p == hi.para {
					z = hi.ich
				}
				appendTo(&b, paraText(p, a, z, sep))
			}
			done[p] = true
			prev = p
		}
		if p == hi.para || firstOnly {
			break
		}
	}
	return b.Value()
}

// separator returns what goes between two paragraphs of the extracted
// text.
func separator(prev, p *boxes.Para) rich.String {
	r1, c1, ok1 := boxes.CellOf(prev)
	r2, c2, ok2 := boxes.CellOf(p)
	if ok1 && ok2 && r1 == r2 && c1 != c2 {
		return rich.Plain("\t", rich.Props{})
	}
	return rich.Plain("\n", rich.Props{Para: prev.Props})
}

// paraText returns [a, z) of p with embedded boxes replaced by sep.
func paraText(p *boxes.Para, a, z int, sep string) rich.String {
	src := p.Source()
	var b rich.Builder
	for i, it := range src.Items() {
		m := src.ItemMin(i)
		x, y := max(a, m), min(z, m+it.Len())
		if x >= y {
			continue
		}
		if it.IsBox() {
			if sep != "" {
				appendTo(&b, rich.Plain(sep, rich.Props{}))
			}
			continue
		}
		appendTo(&b, it.Str.Substring(x-m, y-m))
	}
	return b.Value()
}

// interlinearLines flattens a paragraph with embedded piles into lines,
// one per line of its tallest pile. Columns are separated by tabs so
// that they stay aligned.
func interlinearLines(p *boxes.Para, sep string) []rich.String {
	var cols [][]rich.String
	for _, it := range p.Source().Items() {
		switch v := it.Box.(type) {
		case nil:
			cols = append(cols, []rich.String{it.Str})
		case *boxes.Pile:
			if v.Kind != boxes.PileInner {
				cols = append(cols, []rich.String{rich.Plain(sep, rich.Props{})})
				continue
			}
			var col []rich.String
			for _, c := range v.Children() {
				q, ok := c.(*boxes.Para)
				if !ok {
					continue
				}
				if q.HasInnerPiles() {
					col = append(col, interlinearLines(q, sep)...)
				} else {
					col = append(col, paraText(q, 0, q.Len(), sep))
				}
			}
			cols = append(cols, col)
		default:
			cols = append(cols, []rich.String{rich.Plain(sep, rich.Props{})})
		}
	}
	rows := 0
	for _, c := range cols {
		rows = max(rows, len(c))
	}
	lines := make([]rich.String, rows)
	for r := 0; r < rows; r++ {
		var b rich.Builder
		for k, c := range cols {
			if k > 0 {
				appendTo(&b, rich.Plain("\t", rich.Props{}))
			}
			if r < len(c) {
				appendTo(&b, c[r])
			}
		}
		lines[r] = b.Value()
	}
	return lines
}

func joinLines(lines []rich.String) rich.String {
	var b rich.Builder
	for i, l := range lines {
		if i > 0 {
			appendTo(&b, rich.Plain("\n", rich.Props{}))
		}
		appendTo(&b, l)
	}
	return b.Value()
}
