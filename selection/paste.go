package selection

import (
	"errors"
	"fmt"
	"log"

	"github.com/rjkroege/richedit/boxes"
	"github.com/rjkroege/richedit/internal/runes"
	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/rootsite"
	"github.com/rjkroege/richedit/sda"
)

// pasted is text to paste, cut at its real paragraph breaks. paras[k]
// is ended by a break with paragraph properties props[k]; the last
// element of paras has no break after it.
type pasted struct {
	paras []rich.String
	props []rich.ParaProps
}

func (p *pasted) multi() bool { return len(p.paras) > 1 }

// joined returns the text with every break folded into a space.
func (p *pasted) joined() rich.String {
	var b rich.Builder
	for i, s := range p.paras {
		if i > 0 {
			q := s.PropsAt(0)
			if s.Len() == 0 {
				q = p.paras[i-1].PropsAt(max(p.paras[i-1].Len()-1, 0))
			}
			b.Replace(b.Len(), b.Len(), rich.Plain(" ", q))
		}
		b.Replace(b.Len(), b.Len(), s)
	}
	return b.Value()
}

// cleanPaste strips tabs, re-resolves links against this document and
// cuts s at its paragraph breaks, normalizing each piece. A break counts as a real paragraph
// boundary when its properties differ from the text before it (or after
// it, at the start); otherwise it becomes a space, or is dropped at the
// very end.
func (s *TextSelection) cleanPaste(in rich.String) (*pasted, error) {
	site := s.root.Site()
	text := in.Runes()
	out := &pasted{}
	var cur rich.Builder
	for i := 0; i < len(text); {
		r := text[i]
		p := in.PropsAt(i)
		switch {
		case r == '\t':
			i++
		case p.Obj.IsLink():
			nd, ok, err := site.MakeObjFromText(p.Obj, s)
			if err != nil && !errors.Is(err, rootsite.ErrNotImplemented) {
				return nil, fmt.Errorf("resolving pasted link: %w", err)
			}
			if ok {
				cur.Replace(cur.Len(), cur.Len(), rich.Object(nd, p))
			}
			i++
		case runes.IsParaBreak(r):
			n := runes.BreakLen(text, i)
			var ref rich.Props
			switch {
			case i > 0:
				ref = in.PropsAt(i - 1)
			case i+n < len(text):
				ref = in.PropsAt(i + n)
			}
			real := p != ref || p.Para != (rich.ParaProps{})
			switch {
			case real:
				out.paras = append(out.paras, cur.Value())
				out.props = append(out.props, p.Para)
				cur = rich.Builder{}
			case i+n < len(text):
				cur.Replace(cur.Len(), cur.Len(), rich.Plain(" ", ref))
			}
			i += n
		default:
			j := i + 1
			for j < len(text) && in.PropsAt(j) == p && text[j] != '\t' && !runes.IsParaBreak(text[j]) {
				j++
			}
			cur.Replace(cur.Len(), cur.Len(), rich.Plain(string(text[i:j]), p))
			i = j
		}
	}
	out.paras = append(out.paras, cur.Value())
	for k := range out.paras {
		out.paras[k] = rich.Normalize(out.paras[k])
	}
	return out, nil
}

// ReplaceWithTsString replaces the selection with s, as a paste does.
// Paragraph breaks copied from another structured text make new
// paragraphs when the selection is in one; the host is asked first and
// may do the work itself or refuse, in which case nothing changes.
func (s *TextSelection) ReplaceWithTsString(str rich.String) error {
	if !s.IsValid() {
		return ErrInvalidSelection
	}
	if ok, err := s.Commit(); !ok || err != nil {
		return err
	}
	in, err := s.cleanPaste(str)
	if err != nil {
		return err
	}
	lo := s.minPos()
	_, _, hasOps := tailOps(lo, false)
	if in.multi() && hasOps {
		dest := lo.para.Props
		resp, err := s.root.Site().OnInsertDiffParas(s, dest, in.paras, in.props)
		if err != nil {
			if !errors.Is(err, rootsite.ErrNotImplemented) {
				log.Printf("OnInsertDiffParas: %v", err)
			}
			resp = rootsite.InsertDefault
		}
		switch resp {
		case rootsite.InsertDone:
			return nil
		case rootsite.InsertFail:
			return fmt.Errorf("pasting %d paragraphs: %w", len(in.paras), ErrCannotEdit)
		}
	}
	r := s.root
	t := sda.Task(r.DataAccess(), "Paste")
	defer t.End()
	cur := s
	if s.IsRange() {
		next, err := s.DeleteRangeAndPrepareToInsert()
		if err != nil {
			return err
		}
		if next == nil {
			return ErrInvalidSelection
		}
		cur = next
	}
	if err := cur.startEditing(); err != nil {
		return err
	}
	if !in.multi() || cur.edit.ops == nil {
		return cur.pasteText(in.joined())
	}
	return cur.pasteParas(in)
}

// pasteText inserts text at the insertion point, as typing does.
func (s *TextSelection) pasteText(text rich.String) error {
	e := s.edit
	if e.ref.Kind == boxes.RefInt && !isIntText(text.Text()) {
		return fmt.Errorf("%q: %w", text.Text(), ErrBadInteger)
	}
	if e.ref.Kind == boxes.RefUnicode || e.ref.Kind == boxes.RefInt {
		text = rich.Plain(text.Text(), s.insertionProps(0))
	}
	if text.Len() == 0 {
		return nil
	}
	off := s.ichEnd - e.ichMin
	e.b.Replace(off, off, text)
	s.setIP(pos{e.para, s.ichEnd + text.Len(), true})
	s.showEdit()
	s.changed(rootsite.SamePara)
	return nil
}

// pasteParas inserts text with paragraph breaks: the first piece goes at
// the insertion point, each later piece gets a new paragraph and the
// last one takes the text that followed the insertion point.
func (s *TextSelection) pasteParas(in *pasted) error {
	e := s.edit
	ops := e.ops
	off := s.ichEnd - e.ichMin
	first := in.paras[0]
	e.b.Replace(off, off, first)
	s.setIP(pos{e.para, s.ichEnd + first.Len(), true})
	if _, err := s.unprotectedCommit(); err != nil {
		return err
	}
	// Commit normalizes the text around the paste, which may move the
	// insertion point.
	off = s.ichEnd - e.ichMin
	da := s.root.DataAccess()
	m := len(in.paras) - 1
	if err := da.InsertNew(ops.owner, ops.tag, ops.ihvo, m, nil); err != nil {
		return err
	}
	for k := 1; k <= m; k++ {
		h, err := da.VecItem(ops.owner, ops.tag, ops.ihvo+k)
		if err != nil {
			return err
		}
		if k < m {
			if err := da.SetString(h, ops.prop, in.paras[k]); err != nil {
				return err
			}
			if st := in.props[k].NamedStyle; st != "" {
				if err := da.SetUnicode(h, sda.TagStyleRules, st); err != nil {
					return err
				}
			}
			continue
		}
		// The last piece and the rest of the original paragraph.
		if n := da.StringProp(ops.hvo, ops.prop).Len(); off < n {
			if err := da.MoveString(ops.hvo, ops.prop, off, n, h, ops.prop, 0); err != nil {
				return err
			}
		}
		lastStr := rich.Normalize(in.paras[m].Concat(da.StringProp(h, ops.prop)))
		if lastStr.Len() == 0 {
			lastStr = rich.Empty(first.PropsAt(max(first.Len()-1, 0)))
		}
		if err := da.SetString(h, ops.prop, lastStr); err != nil {
			return err
		}
	}
	s.restructure(ops.ipAt(ops.ihvo+m, in.paras[m].Len(), in.paras[m].Len() > 0))
	return nil
}
