package selection

import (
	"fmt"

	"github.com/rjkroege/richedit/boxes"
	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/rootsite"
	"github.com/rjkroege/richedit/sda"
)

// runSpan is one run of selected text within a source item.
type runSpan struct {
	para     *boxes.Para
	item     int
	ref      boxes.StrRef
	min, lim int // in item offsets
	props    rich.Props
}

// selectedRuns returns the runs of the selected text in order.
func (s *TextSelection) selectedRuns() []runSpan {
	lo, hi := s.minPos(), s.maxPos()
	var out []runSpan
	for p := lo.para; p != nil; p = boxes.NextPara(p, true) {
		a, z := 0, p.Len()
		if p == lo.para {
			a = lo.ich
		}
		if p == hi.para {
			z = hi.ich
		}
		src := p.Source()
		for i, it := range src.Items() {
			if it.IsBox() {
				continue
			}
			m := src.ItemMin(i)
			x, y := max(a, m)-m, min(z, m+it.Len())-m
			if x >= y {
				continue
			}
			for r, n := 0, it.Str.RunCount(); r < n; r++ {
				rmin, rlim, pr := it.Str.Run(r)
				u, v := max(x, rmin), min(y, rlim)
				if u < v {
					out = append(out, runSpan{p, i, it.Ref, u, v, pr})
				}
			}
		}
		if p == hi.para {
			break
		}
	}
	return out
}

// ipProps returns the properties text typed at the insertion point would
// have.
func (s *TextSelection) ipProps() rich.Props {
	if s.pending != nil {
		return *s.pending
	}
	src := s.anchor.Source()
	ich := s.ichAnchor
	var p rich.Props
	switch {
	case ich > 0 && (s.assocPrev || ich >= src.Len()):
		p = src.PropsAt(ich - 1)
	case ich < src.Len():
		p = src.PropsAt(ich)
	}
	return p.WithoutObj()
}

// GetSelectionProps returns the properties of each run of the selected
// text, or for an insertion point the properties typing would use.
func (s *TextSelection) GetSelectionProps() ([]rich.Props, error) {
	if !s.IsValid() {
		return nil, ErrInvalidSelection
	}
	if !s.IsRange() {
		return []rich.Props{s.ipProps()}, nil
	}
	runs := s.selectedRuns()
	out := make([]rich.Props, len(runs))
	for i, r := range runs {
		out[i] = r.props
	}
	return out, nil
}

type itemKey struct {
	para *boxes.Para
	item int
}

// SetSelectionProps applies props, one per run as GetSelectionProps
// returned them, to the selected text. Runs of properties that cannot
// hold formatting are left alone. For an insertion point props sets what
// the next typed text will look like.
func (s *TextSelection) SetSelectionProps(props []rich.Props) error {
	if !s.IsValid() {
		return ErrInvalidSelection
	}
	if !s.IsRange() {
		if len(props) != 1 {
			return fmt.Errorf("%d props for an insertion point: %w", len(props), ErrBadArgument)
		}
		p := props[0]
		s.pending = &p
		return nil
	}
	if ok, err := s.Commit(); !ok || err != nil {
		return err
	}
	runs := s.selectedRuns()
	if len(runs) != len(props) {
		return fmt.Errorf("%d props for %d runs: %w", len(props), len(runs), ErrBadArgument)
	}
	builders := make(map[itemKey]*rich.Builder)
	var order []itemKey
	refs := make(map[itemKey]boxes.StrRef)
	for i, r := range runs {
		if !r.ref.Editable || (r.ref.Kind != boxes.RefString && r.ref.Kind != boxes.RefMultiString) {
			continue
		}
		k := itemKey{r.para, r.item}
		b, ok := builders[k]
		if !ok {
			b = r.para.Source().Items()[r.item].Str.Builder()
			builders[k] = b
			refs[k] = r.ref
			order = append(order, k)
		}
		b.SetProps(r.min, r.lim, props[i])
	}
	if len(order) == 0 {
		return nil
	}
	da := s.root.DataAccess()
	t := sda.Task(da, "Format")
	defer t.End()
	for _, k := range order {
		ref, v := refs[k], builders[k].Value()
		var err error
		if ref.Kind == boxes.RefString {
			err = da.SetString(ref.Hvo, ref.Tag, v)
		} else {
			err = da.SetMultiStringAlt(ref.Hvo, ref.Tag, ref.Ws, v)
		}
		if err != nil {
			return fmt.Errorf("formatting: %w", err)
		}
	}
	s.changed(rootsite.SamePara)
	return nil
}

// GetParaProps returns the properties of each selected paragraph.
func (s *TextSelection) GetParaProps() ([]rich.ParaProps, error) {
	if !s.IsValid() {
		return nil, ErrInvalidSelection
	}
	lo, hi := s.minPos(), s.maxPos()
	var out []rich.ParaProps
	for p := lo.para; p != nil; p = boxes.NextPara(p, true) {
		out = append(out, p.Props)
		if p == hi.para {
			break
		}
	}
	return out, nil
}

// TextSelInfo describes one end of a text selection by the property it
// is in.
type TextSelInfo struct {
	Str       rich.String
	Ich       int
	AssocPrev bool
	Hvo       sda.Hvo
	Tag       sda.Tag
	Ws        int
}

// SelInfo describes both ends of a text selection.
type SelInfo struct {
	Anchor          TextSelInfo
	End             TextSelInfo
	Range           bool
	EndBeforeAnchor bool
	Levels          []boxes.Level
}

// PropInfo identifies the object and property at one level of the path
// from the selected property to the root object.
type PropInfo struct {
	Hvo  sda.Hvo
	Tag  sda.Tag
	Ihvo int
	// PropIndex is the index of Tag among the properties the object's
	// notifier displays, or -1.
	PropIndex int
}

// endAt returns the anchor or end, associated toward the inside of a
// range.
func (s *TextSelection) endAt(end bool) pos {
	if end {
		p := s.endPos()
		if s.IsRange() {
			p.assoc = !s.endBeforeAnchor
		}
		return p
	}
	p := s.anchorPos()
	if s.IsRange() {
		p.assoc = s.endBeforeAnchor
	}
	return p
}

func (s *TextSelection) contextAt(end bool) (boxes.EditContext, pos, error) {
	if !s.IsValid() {
		return boxes.EditContext{}, pos{}, ErrInvalidSelection
	}
	p := s.endAt(end)
	res := boxes.EditableSubstringAt(p.para, p.ich, p.ich, p.assoc)
	if res.Status == boxes.NotFound {
		return boxes.EditContext{}, p, fmt.Errorf("no property at %d: %w", p.ich, ErrBadArgument)
	}
	return res.Ctx, p, nil
}

// TextSelInfo describes the anchor, or the end when end is set.
func (s *TextSelection) TextSelInfo(end bool) (TextSelInfo, error) {
	ctx, p, err := s.contextAt(end)
	if err != nil {
		return TextSelInfo{}, err
	}
	return TextSelInfo{
		Str:       ctx.Str,
		Ich:       p.ich - ctx.IchMin,
		AssocPrev: p.assoc,
		Hvo:       ctx.Ref.Hvo,
		Tag:       ctx.Ref.Tag,
		Ws:        ctx.Ref.Ws,
	}, nil
}

// AllTextSelInfo describes the whole selection.
func (s *TextSelection) AllTextSelInfo() (SelInfo, error) {
	a, err := s.TextSelInfo(false)
	if err != nil {
		return SelInfo{}, err
	}
	e, err := s.TextSelInfo(true)
	if err != nil {
		return SelInfo{}, err
	}
	ctx, _, _ := s.contextAt(false)
	var levels []boxes.Level
	if ctx.Ref.Notifier != nil {
		levels = ctx.Ref.Notifier.Levels()
	}
	return SelInfo{
		Anchor:          a,
		End:             e,
		Range:           s.IsRange(),
		EndBeforeAnchor: s.endBeforeAnchor,
		Levels:          levels,
	}, nil
}

// CLevels returns how many levels PropInfo accepts for an end.
func (s *TextSelection) CLevels(end bool) (int, error) {
	ctx, _, err := s.contextAt(end)
	if err != nil {
		return 0, err
	}
	if ctx.Ref.Notifier == nil {
		return 1, nil
	}
	return len(ctx.Ref.Notifier.Levels()) + 1, nil
}

// PropInfo returns level ilev of the path of the anchor (or end):
// level 0 is the selected property itself and each further level is the
// sequence holding the object of the level below.
func (s *TextSelection) PropInfo(end bool, ilev int) (PropInfo, error) {
	ctx, _, err := s.contextAt(end)
	if err != nil {
		return PropInfo{}, err
	}
	if ilev == 0 {
		return PropInfo{Hvo: ctx.Ref.Hvo, Tag: ctx.Ref.Tag, Ihvo: -1, PropIndex: ctx.Ref.PropIndex}, nil
	}
	n := ctx.Ref.Notifier
	for i := 1; i < ilev && n != nil; i++ {
		n = n.Parent
	}
	if ilev < 0 || n == nil || n.Parent == nil {
		return PropInfo{}, fmt.Errorf("level %d: %w", ilev, ErrBadArgument)
	}
	return PropInfo{Hvo: n.Parent.Hvo, Tag: n.ParentTag(), Ihvo: n.ObjIndex, PropIndex: n.ParentProp}, nil
}
