package boxes

import (
	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/sda"
)

// PropFlags describe how a notifier property is displayed.
type PropFlags int

const (
	// PropEditable marks a property the user may edit.
	PropEditable PropFlags = 1 << iota
	// PropParaSequence marks an owning sequence whose items are the
	// paragraphs of a structured text.
	PropParaSequence
)

// NotifierProp is one property of the object a Notifier displays.
type NotifierProp struct {
	Tag   sda.Tag
	Kind  sda.PropKind
	Flags PropFlags
	Ws    int
}

// Notifier records which object a part of the display shows and where
// that object sits in the display hierarchy.
type Notifier struct {
	Hvo    sda.Hvo
	Parent *Notifier
	// ParentProp is the index in Parent.Props of the sequence that
	// contains Hvo, and ObjIndex its position in that sequence.
	ParentProp int
	ObjIndex   int
	Props      []NotifierProp
}

// addProp records a property and returns its index.
func (n *Notifier) addProp(p NotifierProp) int {
	for i, q := range n.Props {
		if q.Tag == p.Tag && q.Ws == p.Ws && q.Kind == p.Kind {
			n.Props[i].Flags |= p.Flags
			return i
		}
	}
	n.Props = append(n.Props, p)
	return len(n.Props) - 1
}

// ParentTag returns the tag of the sequence containing n.Hvo, or 0.
func (n *Notifier) ParentTag() sda.Tag {
	if n.Parent == nil || n.ParentProp < 0 || n.ParentProp >= len(n.Parent.Props) {
		return 0
	}
	return n.Parent.Props[n.ParentProp].Tag
}

// IsParagraphOfText reports whether n displays an item of an editable
// paragraph sequence.
func (n *Notifier) IsParagraphOfText() bool {
	if n == nil || n.Parent == nil || n.ParentProp >= len(n.Parent.Props) {
		return false
	}
	f := n.Parent.Props[n.ParentProp].Flags
	return f&PropParaSequence != 0 && f&PropEditable != 0
}

// Level is one step of the path from the root object to a displayed
// object: the object is item Ihvo of sequence Tag.
type Level struct {
	Tag  sda.Tag
	Ihvo int
}

// Levels returns the path from the root object to n.Hvo, outermost first.
func (n *Notifier) Levels() []Level {
	var out []Level
	for m := n; m != nil && m.Parent != nil; m = m.Parent {
		out = append(out, Level{Tag: m.ParentTag(), Ihvo: m.ObjIndex})
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// EditStatus is the outcome of an editable substring lookup.
type EditStatus int

const (
	NotFound EditStatus = iota
	ReadOnly
	Editable
)

func (s EditStatus) String() string {
	switch s {
	case NotFound:
		return "NotFound"
	case ReadOnly:
		return "ReadOnly"
	case Editable:
		return "Editable"
	}
	return "EditStatus(?)"
}

// EditContext describes the property displayed at a paragraph position.
type EditContext struct {
	// IchMin and IchLim are the logical bounds of the property's text
	// within the paragraph.
	IchMin, IchLim int
	Str            rich.String
	Ref            StrRef
	// StringIndex is the index of the source item.
	StringIndex int
}

// EditResult is returned by EditableSubstringAt. Ctx is meaningful
// unless Status is NotFound.
type EditResult struct {
	Status EditStatus
	Ctx    EditContext
}

// EditableSubstringAt finds the property text containing [ichMin,
// ichLim) of p. At a boundary between two items assocPrev chooses the
// earlier one; an editable candidate is preferred over a read-only one.
func EditableSubstringAt(p *Para, ichMin, ichLim int, assocPrev bool) EditResult {
	if p == nil || p.src == nil {
		return EditResult{}
	}
	src := p.src
	if ichLim < ichMin {
		ichMin, ichLim = ichLim, ichMin
	}
	var cands []int
	for i := range src.items {
		it := &src.items[i]
		if it.Box != nil {
			continue
		}
		min := src.mins[i]
		if min <= ichMin && ichLim <= min+it.Len() {
			cands = append(cands, i)
		}
	}
	if len(cands) == 0 {
		return EditResult{}
	}
	pick := cands[0]
	if len(cands) > 1 {
		pick = choose(src, cands, ichMin, ichLim, assocPrev)
		if !editable(&src.items[pick]) {
			for _, c := range cands {
				if editable(&src.items[c]) {
					pick = c
					break
				}
			}
		}
	}
	it := &src.items[pick]
	ctx := EditContext{
		IchMin:      src.mins[pick],
		IchLim:      src.mins[pick] + it.Len(),
		Str:         it.Str,
		Ref:         it.Ref,
		StringIndex: pick,
	}
	if !editable(it) {
		return EditResult{Status: ReadOnly, Ctx: ctx}
	}
	return EditResult{Status: Editable, Ctx: ctx}
}

func choose(src *Source, cands []int, ichMin, ichLim int, assocPrev bool) int {
	if ichMin < ichLim {
		for _, c := range cands {
			if src.items[c].Len() > 0 {
				return c
			}
		}
		return cands[0]
	}
	if assocPrev {
		for i := len(cands) - 1; i >= 0; i-- {
			if src.mins[cands[i]] < ichMin {
				return cands[i]
			}
		}
		return cands[0]
	}
	for _, c := range cands {
		if src.mins[c]+src.items[c].Len() > ichMin {
			return c
		}
	}
	return cands[len(cands)-1]
}

func editable(it *Item) bool {
	return it.Ref.Kind != RefLiteral && it.Ref.Editable
}
